package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/spigell/hireability/internal/analysis"
	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/github"
	"github.com/spigell/hireability/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnalyzer struct {
	err      error
	panicMsg string

	mu     sync.Mutex
	last   analysis.Request
	kind   enrichment.Kind
	called int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req analysis.Request) (report.Report, error) {
	f.record(req, "")
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return report.Report{}, f.err
	}
	return report.Report{
		RequestID:    "req-1",
		PrimaryStack: "Go Developer",
		Enrichment:   map[enrichment.Kind]report.Enrichment{},
	}, nil
}

func (f *fakeAnalyzer) Enrich(_ context.Context, req analysis.Request, kind enrichment.Kind) (report.Enrichment, error) {
	f.record(req, kind)
	if f.err != nil {
		return report.Enrichment{}, f.err
	}
	return report.Enrichment{Kind: kind, Source: report.SourceFallbackStub, Data: map[string]string{}}, nil
}

func (f *fakeAnalyzer) record(req analysis.Request, kind enrichment.Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	f.kind = kind
	f.called++
}

type httpRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *httpRecorder) ObserveHTTP(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, fmt.Sprintf("%s %s %d", method, route, status))
}

func newTestServer(t *testing.T, analyzer *fakeAnalyzer, mutate func(*Config)) *Server {
	t.Helper()

	cfg := Config{Analyzer: analyzer, Logger: zap.NewNop(), Version: "test"}
	if mutate != nil {
		mutate(&cfg)
	}

	srv, err := New(cfg)
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name      string
		providers []enrichment.Status
		want      string
	}{
		{
			name: "provider configured",
			providers: []enrichment.Status{
				{Name: "groq", Enabled: true, Details: map[string]string{"role": "primary"}},
				{Name: "secondary", Reason: "not configured"},
			},
			want: statusOK,
		},
		{
			name:      "no providers",
			providers: []enrichment.Status{{Name: "primary", Reason: "not configured"}},
			want:      statusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeAnalyzer{}, func(cfg *Config) {
				cfg.Providers = func() []enrichment.Status { return tt.providers }
			})

			for _, path := range []string{"/", "/healthz"} {
				w := serve(srv, http.MethodGet, path, "")
				require.Equal(t, http.StatusOK, w.Code)

				var body health
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.want, body.Status)
				assert.Equal(t, "test", body.Version)
				assert.Len(t, body.Providers, len(tt.providers))
			}
		})
	}
}

func TestHealthWithoutProviderSource(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, nil)

	w := serve(srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"providers":[]`)
}

func TestAnalyze(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	srv := newTestServer(t, analyzer, nil)

	w := serve(srv, http.MethodPost, "/api/analyze-all",
		`{"username":"octo","difficulty":"hard","kinds":["swot","roleFit"],"job":{"company":"Acme","jobRole":"SRE"}}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"primaryStack":"Go Developer"`)

	assert.Equal(t, "octo", analyzer.last.Login)
	assert.Equal(t, "hard", analyzer.last.Difficulty)
	assert.Equal(t, []string{"swot", "roleFit"}, analyzer.last.Kinds)
	assert.Equal(t, "SRE", analyzer.last.Job.Role)
}

func TestSingleKindRoutes(t *testing.T) {
	for path, kind := range singleKindRoutes {
		t.Run(path, func(t *testing.T) {
			analyzer := &fakeAnalyzer{}
			srv := newTestServer(t, analyzer, nil)

			w := serve(srv, http.MethodPost, "/api/analyze-all"+path, `{"username":"octo","repoName":"api"}`)
			require.Equal(t, http.StatusOK, w.Code)

			var body report.Enrichment
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, kind, body.Kind)
			assert.Equal(t, kind, analyzer.kind)
			assert.Equal(t, "api", analyzer.last.RepoName)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
		code   string
	}{
		{
			name:   "validation",
			err:    fmt.Errorf("%w: username is required", analysis.ErrInvalidRequest),
			body:   `{}`,
			status: http.StatusBadRequest,
			code:   "invalid_argument",
		},
		{
			name:   "malformed body",
			body:   `{"username":`,
			status: http.StatusBadRequest,
			code:   "invalid_argument",
		},
		{
			name:   "unknown user",
			err:    fmt.Errorf("%w: %w", analysis.ErrSnapshotUnavailable, github.ErrNotFound),
			body:   `{"username":"ghost"}`,
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "unknown repository",
			err:    fmt.Errorf("%w: octo/nope", analysis.ErrRepoNotFound),
			body:   `{"username":"octo"}`,
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "upstream failure",
			err:    fmt.Errorf("%w: %w", analysis.ErrSnapshotUnavailable, github.ErrUpstream),
			body:   `{"username":"octo"}`,
			status: http.StatusBadGateway,
			code:   "unavailable",
		},
		{
			name:   "anything else",
			err:    fmt.Errorf("boom"),
			body:   `{"username":"octo"}`,
			status: http.StatusInternalServerError,
			code:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeAnalyzer{err: tt.err}, nil)

			w := serve(srv, http.MethodPost, "/api/analyze-all", tt.body)
			require.Equal(t, tt.status, w.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestUpstreamErrorHidesCause(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{err: fmt.Errorf("%w: token ghp_secret rejected", analysis.ErrSnapshotUnavailable)}, nil)

	w := serve(srv, http.MethodPost, "/api/analyze-all/swot", `{"username":"octo"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "ghp_secret")
}

func TestPanicRecovery(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{panicMsg: "nil map"}, nil)

	w := serve(srv, http.MethodPost, "/api/analyze-all", `{"username":"octo"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error","code":"internal"}`, w.Body.String())
}

func TestClassifyDerivesStatusFromCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   errbuilder.ErrCode
		status int
		wire   string
	}{
		{"invalid", fmt.Errorf("%w: bad strictness", analysis.ErrInvalidRequest), errbuilder.CodeInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"malformed", fmt.Errorf("%w: %w", errMalformedBody, errors.New("unexpected EOF")), errbuilder.CodeInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"not found", fmt.Errorf("%w: %w", analysis.ErrSnapshotUnavailable, github.ErrNotFound), errbuilder.CodeNotFound, http.StatusNotFound, "not_found"},
		{"unavailable", fmt.Errorf("%w: %w", analysis.ErrSnapshotUnavailable, github.ErrUpstream), errbuilder.CodeUnavailable, http.StatusBadGateway, "unavailable"},
		{"internal", errors.New("boom"), errbuilder.CodeInternal, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coded := classify(tt.err)
			require.Equal(t, tt.code, coded.ErrCode())
			assert.ErrorIs(t, coded.Unwrap(), tt.err)

			status, wire := httpStatus(coded)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.wire, wire)
		})
	}
}

func TestAccessLogAndMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &httpRecorder{}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})

	srv := newTestServer(t, &fakeAnalyzer{}, func(cfg *Config) {
		cfg.Logger = zap.New(core)
		cfg.Recorder = rec
		cfg.Metrics = metrics
	})

	w := serve(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())

	serve(srv, http.MethodPost, "/api/analyze-all", `not json`)
	serve(srv, http.MethodGet, "/nowhere", "")

	assert.Equal(t, []string{
		"GET /metrics 200",
		"POST /api/analyze-all 400",
		"GET unmatched 404",
	}, rec.routes)

	entries := logs.FilterMessage("request served").All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Contains(t, entries[1].ContextMap()["error"], "not valid JSON")
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{name: "any origin", origin: "https://app.example", want: "*"},
		{name: "allowed origin", origins: []string{"https://app.example"}, origin: "https://app.example", want: "https://app.example"},
		{name: "foreign origin", origins: []string{"https://app.example"}, origin: "https://evil.example", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeAnalyzer{}, func(cfg *Config) {
				cfg.AllowOrigins = tt.origins
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, "127.0.0.1:0")
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewRequiresAnalyzer(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestRequestBodyLimit(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, nil)

	huge := `{"username":"octo","resumeText":"` + string(bytes.Repeat([]byte("a"), maxBodyBytes)) + `"}`
	w := serve(srv, http.MethodPost, "/api/analyze-all/resume", huge)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
