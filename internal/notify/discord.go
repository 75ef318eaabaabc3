package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"

	"sales_ledger/internal/report"
)

// DiscordWebhook posts and edits messages through a Discord webhook URL.
type DiscordWebhook struct {
	url    string
	client *resty.Client
}

type webhookMessage struct {
	ID string `json:"id"`
}

// NewDiscordWebhook builds a client for webhookURL. An empty URL yields an
// unconfigured channel that is never called.
func NewDiscordWebhook(webhookURL string, timeout time.Duration) *DiscordWebhook {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &DiscordWebhook{
		url:    strings.TrimRight(strings.TrimSpace(webhookURL), "/"),
		client: client,
	}
}

func (d *DiscordWebhook) Configured() bool {
	return d != nil && d.url != ""
}

// Close releases the underlying HTTP client.
func (d *DiscordWebhook) Close() error {
	return d.client.Close()
}

// CreateMessage sends a new message and waits for Discord to return its id.
func (d *DiscordWebhook) CreateMessage(ctx context.Context, payload report.Payload) Result {
	var msg webhookMessage
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParam("wait", "true").
		SetBody(payload).
		SetResult(&msg).
		Post(d.url)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("create message: %w", err)}
	}
	if !resp.IsSuccess() {
		return Result{
			Outcome:    OutcomeFailed,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("create message: discord returned status %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	return Result{Outcome: OutcomeOK, MessageID: msg.ID, StatusCode: resp.StatusCode()}
}

// EditMessage replaces the embeds of message id in place.
func (d *DiscordWebhook) EditMessage(ctx context.Context, id string, payload report.Payload) Result {
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(payload).
		Patch(d.url + "/messages/" + url.PathEscape(id))
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: fmt.Errorf("edit message %s: %w", id, err)}
	}

	switch code := resp.StatusCode(); {
	case resp.IsSuccess():
		return Result{Outcome: OutcomeOK, StatusCode: code}
	case code == http.StatusNotFound:
		return Result{
			Outcome:    OutcomeNotFound,
			StatusCode: code,
			Err:        fmt.Errorf("edit message %s: not found", id),
		}
	default:
		return Result{
			Outcome:    OutcomeFailed,
			StatusCode: code,
			Err:        fmt.Errorf("edit message %s: discord returned status %d: %s", id, code, resp.String()),
		}
	}
}
