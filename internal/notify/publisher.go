package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sales_ledger/internal/report"
)

// ErrNoMessageID is returned when a create succeeded without a message id.
var ErrNoMessageID = errors.New("channel returned no message id")

// Publisher keeps a single remote message in sync with the latest payload.
type Publisher struct {
	channel Channel
	logger  *zap.Logger
}

// NewPublisher creates a Publisher. A nil or unconfigured channel turns
// every Publish into a no-op.
func NewPublisher(channel Channel, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{channel: channel, logger: logger}
}

// Enabled reports whether Publish will reach the channel.
func (p *Publisher) Enabled() bool {
	return p.channel != nil && p.channel.Configured()
}

// Publish edits the tracked message, or creates one when nothing is tracked
// or the tracked message is gone. It returns the state to persist.
//
// Only a not-found edit falls back to create; any other edit failure
// aborts so a transient error never produces a duplicate message.
func (p *Publisher) Publish(ctx context.Context, state State, payload report.Payload) (State, error) {
	if !p.Enabled() {
		p.logger.Debug("notification channel not configured, skipping publish")
		publishTotal.WithLabelValues(resultSkipped).Inc()
		return state, nil
	}

	recreate := false
	if state.Tracked() {
		res := p.channel.EditMessage(ctx, state.MessageID, payload)
		switch res.Outcome {
		case OutcomeOK:
			publishTotal.WithLabelValues(resultEdited).Inc()
			return state, nil
		case OutcomeNotFound:
			p.logger.Info("tracked message not found, creating a new one",
				zap.String("message_id", state.MessageID))
			state = State{}
			recreate = true
		default:
			publishTotal.WithLabelValues(resultFailed).Inc()
			return state, fmt.Errorf("edit message %s: %w", state.MessageID, res.Err)
		}
	}

	res := p.channel.CreateMessage(ctx, payload)
	if res.Outcome != OutcomeOK {
		publishTotal.WithLabelValues(resultFailed).Inc()
		return state, fmt.Errorf("create message: %w", res.Err)
	}
	if res.MessageID == "" {
		publishTotal.WithLabelValues(resultFailed).Inc()
		return state, ErrNoMessageID
	}

	if recreate {
		publishTotal.WithLabelValues(resultRecreated).Inc()
	} else {
		publishTotal.WithLabelValues(resultCreated).Inc()
	}
	p.logger.Info("summary message created", zap.String("message_id", res.MessageID))
	return State{MessageID: res.MessageID}, nil
}
