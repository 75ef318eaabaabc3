package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_ledger/internal/report"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func newWebhookServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		reqs = append(reqs, recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func testPayload() report.Payload {
	return report.Payload{Embeds: []report.Embed{{Title: "t"}}}
}

func TestDiscordWebhook_Create(t *testing.T) {
	srv, reqs := newWebhookServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"112233","channel_id":"9"}`))
	})
	d := NewDiscordWebhook(srv.URL+"/api/webhooks/1/token", 5*time.Second)
	defer d.Close()

	res := d.CreateMessage(context.Background(), testPayload())

	require.NoError(t, res.Err)
	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Equal(t, "112233", res.MessageID)

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/webhooks/1/token", got.path)
	assert.Equal(t, "wait=true", got.query)
	assert.Contains(t, got.body, "embeds")
}

func TestDiscordWebhook_CreateWithoutID(t *testing.T) {
	srv, _ := newWebhookServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	d := NewDiscordWebhook(srv.URL, time.Second)
	defer d.Close()

	res := d.CreateMessage(context.Background(), testPayload())
	assert.Equal(t, OutcomeOK, res.Outcome)
	assert.Empty(t, res.MessageID)
}

func TestDiscordWebhook_CreateRejected(t *testing.T) {
	srv, _ := newWebhookServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	d := NewDiscordWebhook(srv.URL, time.Second)
	defer d.Close()

	res := d.CreateMessage(context.Background(), testPayload())
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.Error(t, res.Err)
}

func TestDiscordWebhook_Edit(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Outcome
	}{
		{"ok", http.StatusOK, OutcomeOK},
		{"not found", http.StatusNotFound, OutcomeNotFound},
		{"bad request", http.StatusBadRequest, OutcomeFailed},
		{"server error", http.StatusBadGateway, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, reqs := newWebhookServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"id":"M1"}`))
			})
			d := NewDiscordWebhook(srv.URL+"/", time.Second)
			defer d.Close()

			res := d.EditMessage(context.Background(), "M1", testPayload())
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.status, res.StatusCode)

			require.Len(t, *reqs, 1)
			assert.Equal(t, http.MethodPatch, (*reqs)[0].method)
			assert.Equal(t, "/messages/M1", (*reqs)[0].path)
		})
	}
}

func TestDiscordWebhook_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	d := NewDiscordWebhook(url, time.Second)
	defer d.Close()

	res := d.EditMessage(context.Background(), "M1", testPayload())
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestDiscordWebhook_Configured(t *testing.T) {
	assert.False(t, NewDiscordWebhook("", time.Second).Configured())
	assert.False(t, NewDiscordWebhook("   ", time.Second).Configured())
	assert.True(t, NewDiscordWebhook("https://discord.com/api/webhooks/1/x", time.Second).Configured())

	var d *DiscordWebhook
	assert.False(t, d.Configured())
}
