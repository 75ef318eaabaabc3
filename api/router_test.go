package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_ledger/internal/notify"
	"sales_ledger/internal/report"
	"sales_ledger/internal/sales"
)

// fakeDiscord is a webhook endpoint that hands out sequential message ids.
type fakeDiscord struct {
	mu        sync.Mutex
	next      int
	messages  map[string]bool
	calls     []string
	failWrite bool
}

func (f *fakeDiscord) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	if f.failWrite {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodPost:
		f.next++
		id := fmt.Sprintf("M%d", f.next)
		f.messages[id] = true
		w.Write([]byte(`{"id":"` + id + `"}`))
	case http.MethodPatch:
		id := r.URL.Path[len("/webhook/messages/"):]
		if !f.messages[id] {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Unknown Message","code":10008}`))
			return
		}
		w.Write([]byte(`{"id":"` + id + `"}`))
	}
}

func (f *fakeDiscord) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type testEnv struct {
	router  *gin.Engine
	discord *fakeDiscord
	state   *notify.FileStateStore
}

func newTestEnv(t *testing.T, password string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	discord := &fakeDiscord{messages: map[string]bool{}}
	srv := httptest.NewServer(discord)
	t.Cleanup(srv.Close)

	logger := zaptest.NewLogger(t)
	storage := sales.NewLocalStorage()
	state := notify.NewFileStateStore(t.TempDir() + "/metadata.json")
	webhook := notify.NewDiscordWebhook(srv.URL+"/webhook", 5*time.Second)
	t.Cleanup(func() { webhook.Close() })

	syncer := notify.NewSyncer(storage, report.DefaultCatalog(), state, notify.NewPublisher(webhook, logger), logger, time.UTC)
	svc := sales.NewService(storage, logger, syncer)

	router := gin.New()
	InitRoutes(router, Options{
		Service:        svc,
		Catalog:        report.DefaultCatalog(),
		Logger:         logger,
		AppPassword:    password,
		MetricsEnabled: true,
	})

	return &testEnv{router: router, discord: discord, state: state}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) messageID(t *testing.T) string {
	t.Helper()
	s, err := e.state.Load(context.Background())
	require.NoError(t, err)
	return s.MessageID
}

// TestSalesHappyPath_FullFlow covers POST -> PUT -> GET -> DELETE and the summary message.
func TestSalesHappyPath_FullFlow(t *testing.T) {
	env := newTestEnv(t, "")

	var saleID string

	t.Run("POST_CreateSale", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/sales", map[string]any{"name": "Infinity", "value": "500"})

		assert.Equal(t, http.StatusCreated, w.Code)

		var created sales.Sale
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, sales.StatusPending, created.Status)
		assert.Equal(t, sales.DefaultBuyer, created.Buyer)
		assert.Equal(t, "500.00", created.Value.StringFixed(2))

		saleID = created.ID
		assert.Equal(t, []string{"POST /webhook"}, env.discord.snapshot())
		assert.Equal(t, "M1", env.messageID(t))
	})

	if saleID == "" {
		t.Fatal("Sale ID was not successfully generated in POST_CreateSale step.")
	}

	t.Run("PUT_UpdateSale", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/sales/"+saleID, map[string]any{"status": "delivered", "buyer": "ana"})

		assert.Equal(t, http.StatusOK, w.Code)

		var updated sales.Sale
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, sales.StatusDelivered, updated.Status)
		assert.Equal(t, "ana", updated.Buyer)

		assert.Equal(t, "PATCH /webhook/messages/M1", env.discord.snapshot()[1])
		assert.Equal(t, "M1", env.messageID(t))
	})

	t.Run("GET_ListSales", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/sales", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var list []sales.Sale
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, saleID, list[0].ID)
	})

	t.Run("GET_Summary", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/sales/summary", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var sum struct {
			TotalRevenue   string         `json:"total_revenue"`
			NetProfit      string         `json:"net_profit"`
			CountsByStatus map[string]int `json:"counts_by_status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
		assert.Equal(t, "500", sum.TotalRevenue)
		assert.Equal(t, "250", sum.NetProfit)
		assert.Equal(t, 1, sum.CountsByStatus["delivered"])
	})

	t.Run("DELETE_Sale", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/sales?id="+saleID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodDelete, "/api/sales/"+saleID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.Len(t, env.discord.snapshot(), 3, "a failed delete must not publish")
	})
}

func TestCreateSale_Validation(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{"missing name", map[string]any{"value": 10}, http.StatusBadRequest},
		{"missing value", map[string]any{"name": "x"}, http.StatusBadRequest},
		{"negative value", map[string]any{"name": "x", "value": -1}, http.StatusBadRequest},
		{"unknown status", map[string]any{"name": "x", "value": 1, "status": "lost"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/sales", tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
	assert.Empty(t, env.discord.snapshot())
}

func TestUpdateSale_IDInBody(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/api/sales", map[string]any{"name": "FW PRO", "value": 800})
	require.Equal(t, http.StatusCreated, w.Code)
	var created sales.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, http.MethodPut, "/api/sales", map[string]any{"id": created.ID, "value": "799.90"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/sales", map[string]any{"value": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/sales/unknown", map[string]any{"value": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessageRecreatedAfterExternalDelete(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/api/sales", map[string]any{"name": "Infinity", "value": 500})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "M1", env.messageID(t))

	env.discord.mu.Lock()
	delete(env.discord.messages, "M1")
	env.discord.mu.Unlock()

	w = env.do(t, http.MethodPost, "/api/sales", map[string]any{"name": "FW PRO", "value": 800})
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, []string{
		"POST /webhook",
		"PATCH /webhook/messages/M1",
		"POST /webhook",
	}, env.discord.snapshot())
	assert.Equal(t, "M2", env.messageID(t))
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	env := newTestEnv(t, "")
	env.discord.failWrite = true

	w := env.do(t, http.MethodPost, "/api/sales", map[string]any{"name": "Infinity", "value": 500})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, env.messageID(t))

	w = env.do(t, http.MethodGet, "/api/sales", nil)
	var list []sales.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestLoginGate(t *testing.T) {
	env := newTestEnv(t, "s3cret")

	w := env.do(t, http.MethodGet, "/api/sales", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Senha incorreta")

	w = env.do(t, http.MethodPost, "/api/login", map[string]string{"password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == authCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)
	assert.Equal(t, authMaxAge, session.MaxAge)

	w = env.do(t, http.MethodGet, "/api/sales", nil, session)
	assert.Equal(t, http.StatusOK, w.Code)

	forged := &http.Cookie{Name: authCookieName, Value: authMarker}
	w = env.do(t, http.MethodGet, "/api/sales", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductsAndPing(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"FW PRO"`)

	w = env.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ledger_sync_duration_seconds")
}
