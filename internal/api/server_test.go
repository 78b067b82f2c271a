package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/journal"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, _ := newLoggedServer(t, zerolog.Nop())
	return s
}

func newLoggedServer(t *testing.T, log zerolog.Logger) (*Server, *store.SQLiteStore) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewSQLiteStore(filepath.Join(dir, "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := journal.New(st, journal.Options{
		OwnerID:        "trader-1",
		DefaultBalance: 10000,
		SessionPath:    filepath.Join(dir, "session.yaml"),
		Now:            func() time.Time { return time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC) },
		Logger:         zerolog.Nop(),
	})
	t.Cleanup(svc.Close)
	require.NoError(t, svc.Open(context.Background()))

	return New(Config{Log: log, Journal: svc, DevMode: true, Version: "test"}), st
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const tradeBody = `{"symbol":"EUR/USD","type":"long","entryPrice":1.1,"stopLoss":1.095,"takeProfit":1.11,"lotSize":1,"mood":"confident"}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestTradeLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/trades", tradeBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Trade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 1000.0, created.Profit)
	assert.Equal(t, 5.0, created.RiskPercent)

	rec = do(t, s, http.MethodGet, "/api/trades/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalTrades":1`)

	rec = do(t, s, http.MethodDelete, "/api/trades/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/trades/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddTrade_ValidationIsBadRequest(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/trades", `{"symbol":"EUR/USD","type":"long","entryPrice":0,"stopLoss":1,"lotSize":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"entryPrice"`)

	rec = do(t, s, http.MethodPost, "/api/trades", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccounts(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/accounts", `{"name":"Swing","balance":5000,"currency":"gbp"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var acct models.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acct))
	assert.Equal(t, "GBP", acct.Currency)

	rec = do(t, s, http.MethodPut, "/api/accounts/"+acct.ID+"/balance", `{"balance":7500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"balance":7500`)

	rec = do(t, s, http.MethodPost, "/api/accounts/"+acct.ID+"/switch", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currentId":"`+acct.ID+`"`)

	rec = do(t, s, http.MethodDelete, "/api/accounts/"+acct.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/accounts/"+acct.ID+"/switch", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteDefaultAccountRejected(t *testing.T) {
	s := newTestServer(t)
	current, err := s.journal.CurrentAccount()
	require.NoError(t, err)

	rec := do(t, s, http.MethodDelete, "/api/accounts/"+current.ID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/preview", `{"symbol":"EUR/USD","type":"buy","entryPrice":1.1,"stopLoss":1.095,"lotSize":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"riskAmount":500`)
}

func TestImportExport(t *testing.T) {
	s := newTestServer(t)

	csv := "Symbol,Type,Entry,Stop,Target,Size\nEUR/USD,long,1.1,1.095,1.11,1\nbroken\n"
	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":1`)
	assert.Contains(t, rec.Body.String(), `"skipped":1`)

	rec = do(t, s, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trading-journal-2024-05-06.csv")
	assert.Contains(t, rec.Body.String(), "EUR/USD")
}

func TestListTrades_Filters(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/trades", tradeBody).Code)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/trades", tradeBody).Code)
	nas := `{"symbol":"NAS100","type":"short","entryPrice":18000,"stopLoss":18040,"lotSize":0.5}`
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/trades", nas).Code)

	list := func(query string) []models.Trade {
		t.Helper()
		rec := do(t, s, http.MethodGet, "/api/trades"+query, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var trades []models.Trade
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trades))
		return trades
	}

	assert.Len(t, list(""), 3)
	assert.Len(t, list("?symbol=nas100"), 1)
	assert.Len(t, list("?limit=2"), 2)
	assert.Len(t, list("?since=2024-05-06&until=2024-05-06"), 3)
	assert.Empty(t, list("?since=2024-05-07"))

	rec := do(t, s, http.MethodGet, "/api/trades?since=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"since"`)

	rec = do(t, s, http.MethodGet, "/api/trades?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreFailure_LoggedWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	s, st := newLoggedServer(t, zerolog.New(&buf))
	require.NoError(t, st.Close())

	rec := do(t, s, http.MethodPost, "/api/accounts", `{"name":"Swing","balance":5000}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"internal error"`)

	var failed string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, `"message":"Request failed"`) {
			failed = line
		}
	}
	require.NotEmpty(t, failed)
	assert.Regexp(t, `"request_id":"[^"]+"`, failed)
	assert.Contains(t, failed, `"component":"api"`)
}
