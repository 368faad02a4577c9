package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cosmic-backend/infrastructure/config"
	"cosmic-backend/infrastructure/di"
	"cosmic-backend/infrastructure/messaging/eventbridge"
	"cosmic-backend/interfaces/http/rest"
	"cosmic-backend/interfaces/http/rest/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var views = []string{
	"index", "contact", "About", "portfolio", "dashboard", "celebration",
	"ceremonie", "reception", "mitzvhans", "corporate1", "services",
}

type testServer struct {
	handler http.Handler
	cfg     *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()

	viewsDir := filepath.Join(dir, "views")
	require.NoError(t, os.MkdirAll(viewsDir, 0o755))
	for _, v := range views {
		page := fmt.Sprintf("<h1>%s</h1><p>{{.Page}}</p>", v)
		require.NoError(t, os.WriteFile(filepath.Join(viewsDir, v+".html"), []byte(page), 0o644))
	}

	publicDir := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(publicDir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "css", "site.css"), []byte("body{}"), 0o644))

	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.ViewsDir = viewsDir
	cfg.PublicDir = publicDir
	cfg.EventStore = config.EventStoreFile
	cfg.EnableMetrics = true

	return rebuild(t, cfg)
}

func rebuild(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := zap.NewNop()
	metrics := di.ProvideMetrics()
	eventRepo, err := di.ProvideEventRepository(ctx, cfg, nil, metrics, logger)
	require.NoError(t, err)
	contactStore, err := di.ProvideContactStore(cfg, logger)
	require.NoError(t, err)
	dashboardStore, err := di.ProvideDashboardStore(cfg, logger)
	require.NoError(t, err)
	commandBus, err := di.ProvideCommandBus(contactStore, dashboardStore, eventRepo, eventbridge.NopPublisher{}, metrics, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(eventRepo, metrics, logger)
	require.NoError(t, err)

	router := di.ProvideRouter(ctx, cfg, commandBus, queryBus, eventRepo, metrics, nil, logger)
	return &testServer{handler: router.Setup(), cfg: cfg}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *testServer) events(t *testing.T, query string) []map[string]interface{} {
	t.Helper()
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/events"+query, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotNil(t, out)
	return out
}

func readArray(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestStartupCreatesStateFiles(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{s.cfg.ContactPath(), s.cfg.EventPath(), s.cfg.DashboardPath()} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}
}

func TestPages(t *testing.T) {
	s := newTestServer(t)

	paths := map[string]string{
		"/":            "index",
		"/contact":     "contact",
		"/about":       "About",
		"/portfolio":   "portfolio",
		"/dashboard":   "dashboard",
		"/celebration": "celebration",
		"/ceremonie":   "ceremonie",
		"/reception":   "reception",
		"/mitzvhans":   "mitzvhans",
		"/corporate1":  "corporate1",
		"/services":    "services",
	}
	for path, view := range paths {
		t.Run(view, func(t *testing.T) {
			rec := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, rec.Body.String(), "<h1>"+view+"</h1>")
		})
	}
}

func TestPages_MissingViewIsServerError(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.Remove(filepath.Join(s.cfg.ViewsDir, "services.html")))

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/services", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", rec.Body.String())
}

func TestFormData_InsertThenFind(t *testing.T) {
	s := newTestServer(t)

	rec := s.postJSON(t, "/formdata", `{"eventPurpose":"Wedding","guests":150,"date":"2025-06-01","budget":"20000","entertainment":"DJ"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handlers.MsgEventSaved, rec.Body.String())

	rec = s.postJSON(t, "/formdata", `{"eventPurpose":"Corporate Gala","guests":"80","date":"2025-07-01","budget":"9000"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	found := s.events(t, "?eventPurpose=wed")
	require.Len(t, found, 1)
	assert.Equal(t, "Wedding", found[0]["eventPurpose"])
	assert.Equal(t, "150", found[0]["guests"])
	assert.Equal(t, []interface{}{"DJ"}, found[0]["entertainment"])
	assert.NotEmpty(t, found[0]["id"])

	assert.Len(t, s.events(t, ""), 2)
	assert.Len(t, s.events(t, "?eventPurpose="), 2)
	assert.Len(t, s.events(t, "?eventPurpose=a&date=2025-07"), 1)
	assert.Empty(t, s.events(t, "?color=red"))
	assert.Empty(t, s.events(t, "?eventPurpose=.*"))
}

func TestFormData_MissingFields(t *testing.T) {
	s := newTestServer(t)

	rec := s.postJSON(t, "/formdata", `{"guests":"50"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handlers.MsgEventInvalid, rec.Body.String())

	rec = s.postJSON(t, "/formdata", `{"eventPurpose":"Gala","guests":0,"date":"d","budget":"b"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, s.events(t, ""))
}

func TestFormData_FormEncoded(t *testing.T) {
	s := newTestServer(t)

	rec := s.postForm(t, "/formdata", url.Values{
		"eventPurpose":  {"Reception"},
		"guests":        {"60"},
		"date":          {"2025-08-01"},
		"budget":        {"7000"},
		"entertainment": {"DJ", "Live Band"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	found := s.events(t, "?entertainment=band")
	require.Len(t, found, 1)
	assert.Equal(t, []interface{}{"DJ", "Live Band"}, found[0]["entertainment"])
}

func TestFormData_UncastableValueIsServerError(t *testing.T) {
	s := newTestServer(t)

	rec := s.postJSON(t, "/formdata", `{"eventPurpose":"Gala","guests":"1","date":"d","budget":"b","theme":{"color":"gold"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", rec.Body.String())
	assert.Empty(t, s.events(t, ""))
}

func TestInvalidBody(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{`{"eventPurpose":`, `null`, `[1,2]`, `{"eventPurpose":"Gala"}garbage`, `{"a":1}{"b":2}`} {
		rec := s.postJSON(t, "/formdata", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid request body", rec.Body.String())
	}
	assert.Empty(t, s.events(t, ""))

	rec := s.postJSON(t, "/formdata", "{\"eventPurpose\":\"Gala\",\"guests\":\"1\",\"date\":\"d\",\"budget\":\"b\"}\n  ")
	assert.Equal(t, http.StatusOK, rec.Code, "trailing whitespace is allowed")
}

func TestContact(t *testing.T) {
	s := newTestServer(t)

	rec := s.postJSON(t, "/contactone", `{"name":"Ana","email":"ana@example.com","message":"Hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handlers.MsgContactSaved, rec.Body.String())

	rec = s.postForm(t, "/contactone", url.Values{"name": {"Ben"}})
	require.Equal(t, http.StatusOK, rec.Code)

	contacts := readArray(t, s.cfg.ContactPath())
	require.Len(t, contacts, 2)
	assert.Equal(t, "Ana", contacts[0]["name"])
	assert.Equal(t, "ana@example.com", contacts[0]["email"])
	assert.Equal(t, "Ben", contacts[1]["name"])
}

func TestContact_MalformedFile(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(s.cfg.ContactPath(), []byte("{broken"), 0o644))

	rec := s.postJSON(t, "/contactone", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", rec.Body.String())

	data, err := os.ReadFile(s.cfg.ContactPath())
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data))
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	rec := s.postJSON(t, "/dashboard-submit", `{"eventName":"Launch","organizer":"Ana","venue":"Hall","date":"2025-02-02","attendees":40,"budget":"900"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handlers.MsgDashboardSaved, rec.Body.String())

	rec = s.postJSON(t, "/dashboard-submit", `{"eventName":"Launch","organizer":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handlers.MsgDashboardInvalid, rec.Body.String())

	entries := readArray(t, s.cfg.DashboardPath())
	require.Len(t, entries, 1)
	assert.Equal(t, "40", entries[0]["attendees"])
}

func TestDashboard_ConcurrentSubmissions(t *testing.T) {
	s := newTestServer(t)

	const submissions = 12
	var wg sync.WaitGroup
	codes := make([]int, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"eventName":"E%d","organizer":"O","venue":"V","date":"D","attendees":"%d","budget":"B"}`, i, i+1)
			codes[i] = s.postJSON(t, "/dashboard-submit", body).Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	entries := readArray(t, s.cfg.DashboardPath())
	assert.Len(t, entries, submissions)
	names := make(map[interface{}]bool)
	for _, e := range entries {
		names[e["eventName"]] = true
	}
	assert.Len(t, names, submissions)
}

func TestEvents_MalformedStore(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(s.cfg.EventPath(), []byte("not json"), 0o644))

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server Error", rec.Body.String())
}

func TestHealthReadyAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	s.postJSON(t, "/contactone", `{"name":"Ana"}`)
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cosmic_http_requests_total")
	assert.Contains(t, rec.Body.String(), `cosmic_submissions_saved_total{kind="contact"} 1`)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("unreachable") }

func TestReady_StoreUnreachable(t *testing.T) {
	router := rest.NewRouter(nil, nil, failingPinger{}, rest.Options{}, zap.NewNop())

	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestSubmissionsRateLimited(t *testing.T) {
	s := newTestServer(t)
	s.cfg.SubmitRateLimit = 2
	// same data dir, throttling on
	s = rebuild(t, s.cfg)

	for i := 0; i < 2; i++ {
		rec := s.postJSON(t, "/contactone", `{"name":"Ana"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := s.postJSON(t, "/formdata", `{"eventPurpose":"Gala","guests":"1","date":"d","budget":"b"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "reads are not throttled")
	assert.Len(t, readArray(t, s.cfg.ContactPath()), 2)
}

func TestSubmissionsRateLimited_ForwardedHeadersIgnored(t *testing.T) {
	s := newTestServer(t)
	s.cfg.SubmitRateLimit = 1
	s = rebuild(t, s.cfg)

	accepted := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/contactone", strings.NewReader(`{"name":"Ana"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		rec := s.do(t, req)
		if rec.Code == http.StatusOK {
			accepted++
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	}

	assert.Equal(t, 1, accepted)
	assert.Len(t, readArray(t, s.cfg.ContactPath()), 1)
}

func TestSubmissionsRateLimited_TrustedProxy(t *testing.T) {
	s := newTestServer(t)
	s.cfg.SubmitRateLimit = 1
	s.cfg.TrustProxyHeaders = true
	s = rebuild(t, s.cfg)

	post := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/contactone", strings.NewReader(`{"name":"Ana"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", client)
		return s.do(t, req).Code
	}

	assert.Equal(t, http.StatusOK, post("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("203.0.113.1"))
	assert.Equal(t, http.StatusOK, post("203.0.113.2"))
}

func TestStaticAssetsAndCORS(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/css/site.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/css/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.org")
	rec = s.do(t, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
