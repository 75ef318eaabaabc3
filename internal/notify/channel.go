package notify

import (
	"context"

	"sales_ledger/internal/report"
)

// Outcome classifies a call to the outbound channel.
type Outcome int

const (
	// OutcomeOK means the remote accepted the request.
	OutcomeOK Outcome = iota
	// OutcomeNotFound means the message being edited no longer exists.
	OutcomeNotFound
	// OutcomeFailed covers transport errors, rate limits and any other rejection.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Result is what the channel reports for one create or edit call.
// MessageID is only set by a successful create, and may still be empty
// when the remote answered without one.
type Result struct {
	Outcome    Outcome
	MessageID  string
	StatusCode int
	Err        error
}

// Channel is the remote endpoint holding the summary message.
type Channel interface {
	// Configured reports whether a destination is known.
	Configured() bool
	CreateMessage(ctx context.Context, payload report.Payload) Result
	EditMessage(ctx context.Context, id string, payload report.Payload) Result
}
