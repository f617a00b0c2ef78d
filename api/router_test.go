package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/pricecheck/config"
	"github.com/use-agent/pricecheck/models"
)

type fakeService struct {
	searchCalls  atomic.Int32
	productCalls atomic.Int32

	listings []models.Listing
	detail   *models.ProductDetail
	err      error

	gotPlatform string
	gotFormat   string
}

func (f *fakeService) Search(ctx context.Context, query, platform string, dedupe bool) ([]models.Listing, error) {
	f.searchCalls.Add(1)
	f.gotPlatform = platform
	return f.listings, f.err
}

func (f *fakeService) ProductDetail(ctx context.Context, url, format string) (*models.ProductDetail, error) {
	f.productCalls.Add(1)
	f.gotFormat = format
	return f.detail, f.err
}

func (f *fakeService) EngineName() string { return "fake" }

func newTestRouter(t *testing.T, svc Service) *gin.Engine {
	t.Helper()
	cfg := config.Load()
	cfg.Server.Mode = gin.TestMode
	cfg.Server.PublicDir = t.TempDir()
	cfg.Sources.DefaultPlatform = models.PlatformBing
	return NewRouter(svc, cfg, time.Now())
}

func doGet(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &fakeService{})

	w := doGet(r, "/api/health")

	require.Equal(t, http.StatusOK, w.Code)
	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, models.MsgHealthy, body.Message)
	assert.NotEmpty(t, body.Timestamp)
	assert.Equal(t, "fake", body.Engine)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestSearch_MissingQueryDoesNotFetch(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(t, svc)

	for _, target := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20", "/api/search?platform=nope"} {
		w := doGet(r, target)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, models.MsgMissingQuery, body.Error, target)
	}
	assert.Zero(t, svc.searchCalls.Load())
}

func TestSearch_InvalidPlatform(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/search?q=mouse&platform=ebay")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.searchCalls.Load())
}

func TestSearch_Success(t *testing.T) {
	svc := &fakeService{listings: []models.Listing{
		{Title: "a", Price: "¥8", SourceURL: "https://x.test/a", Platform: "bing"},
		{Title: "b", Price: "$12.50", SourceURL: "https://x.test/b", Platform: "bing"},
	}}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/search?q=mouse")

	require.Equal(t, http.StatusOK, w.Code)
	var body models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "mouse", body.Query)
	assert.Equal(t, len(body.Results), body.Count)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, models.PlatformBing, svc.gotPlatform)

	_, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	assert.NoError(t, err, "timestamp must be ISO-8601")
}

func TestSearch_EmptyResultsSerializeAsArray(t *testing.T) {
	r := newTestRouter(t, &fakeService{})

	w := doGet(r, "/api/search?q=nothing&platform=all")

	require.Equal(t, http.StatusOK, w.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "[]", string(raw["results"]))
	assert.Equal(t, "0", string(raw["count"]))
}

func TestSearch_UpstreamFailureIs500(t *testing.T) {
	svc := &fakeService{err: models.NewScrapeError(models.ErrCodeTimeout, "timeout", context.DeadlineExceeded)}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/search?q=mouse")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.MsgSearchFailed, body.Error)
	assert.Equal(t, models.ErrCodeTimeout, body.Code)
	assert.Contains(t, body.Message, "timeout")
}

func TestProduct_MissingURL(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/product")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.MsgMissingURL, body.Error)
	assert.Zero(t, svc.productCalls.Load())
}

func TestProduct_MalformedURL(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/product?url=not-a-url")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.productCalls.Load())
}

func TestProduct_Success(t *testing.T) {
	svc := &fakeService{detail: &models.ProductDetail{
		Title:     "Kettle",
		Price:     "$39.90",
		Images:    []string{},
		SourceURL: "https://shop.test/kettle",
	}}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/product?url=https%3A%2F%2Fshop.test%2Fkettle&format=markdown")

	require.Equal(t, http.StatusOK, w.Code)
	var body models.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Data)
	assert.Equal(t, "Kettle", body.Data.Title)
	assert.Equal(t, models.FormatMarkdown, svc.gotFormat)
}

func TestProduct_ParseFailureIs500(t *testing.T) {
	svc := &fakeService{err: models.NewScrapeError(models.ErrCodeParse, "no product title found", nil)}
	r := newTestRouter(t, svc)

	w := doGet(r, "/api/product?url=https://shop.test/x")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.MsgProductFailed, body.Error)
	assert.Equal(t, models.ErrCodeParse, body.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, &fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://elsewhere.test")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHeaderOnAPI(t *testing.T) {
	r := newTestRouter(t, &fakeService{})

	w := doGet(r, "/api/health")

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t, &fakeService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestStaticFiles(t *testing.T) {
	cfg := config.Load()
	cfg.Server.Mode = gin.TestMode
	cfg.Server.PublicDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Server.PublicDir, "app.js"), []byte("console.log(1)"), 0o644))
	r := NewRouter(&fakeService{}, cfg, time.Now())

	w := doGet(r, "/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = doGet(r, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeService{})
	doGet(r, "/api/health")

	w := doGet(r, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pricecheck_http_requests_total")
}
