package stock

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-directory/internal/auth"
	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
)

func newTestRouter() http.Handler {
	return newLoggedRouter(io.Discard)
}

func newLoggedRouter(out io.Writer) http.Handler {
	logger := observability.NewLoggerTo(out, slog.LevelInfo)
	h := NewHandler(NewGenerator(fixedNow), httpjson.NewResponder(logger, false), logger)

	r := chi.NewRouter()
	r.Get("/api/stock/{symbol}", h.Symbol)
	r.Get("/api/stock_prices/{company}/{time_frame}", h.CompanyPrices)
	return r
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_Symbol(t *testing.T) {
	rec := get(t, newTestRouter(), "/api/stock/XYZ")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []Point
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, FixedWindowDays+1)
	assert.Equal(t, "2026-10-14", points[len(points)-1].Date)
}

func TestHandler_CompanyPrices(t *testing.T) {
	router := newTestRouter()

	rec := get(t, router, "/api/stock_prices/Acme%20Corp/1m")
	require.Equal(t, http.StatusOK, rec.Code)
	var points []Point
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	assert.Len(t, points, 31)

	rec = get(t, router, "/api/stock_prices/Acme/3y")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid time frame"}`, rec.Body.String())
}

func TestHandler_LogsCaller(t *testing.T) {
	var out bytes.Buffer
	router := newLoggedRouter(&out)

	req := httptest.NewRequest(http.MethodGet, "/api/stock_prices/Acme/1m", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), 7))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, out.String(), `"msg":"stock_prices_generated"`)
	assert.Contains(t, out.String(), `"user_id":7`)
	assert.Contains(t, out.String(), `"time_frame":"1m"`)
}
