// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spigell/hireability/internal/analysis"
	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/report"
	"go.uber.org/zap"
)

const (
	service = "hireability"

	statusOK       = "ok"
	statusDegraded = "degraded"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	corsMaxAge        = 12 * time.Hour
	maxBodyBytes      = 1 << 20
)

// Analyzer runs the analysis pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (report.Report, error)
	Enrich(ctx context.Context, req analysis.Request, kind enrichment.Kind) (report.Enrichment, error)
}

type Recorder interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveHTTP(string, string, int, time.Duration) {}

type Config struct {
	Analyzer Analyzer
	// Providers lists the AI provider slots for the health endpoints.
	Providers func() []enrichment.Status
	// Metrics serves /metrics when set.
	Metrics      http.Handler
	Recorder     Recorder
	Logger       *zap.Logger
	AllowOrigins []string
	Version      string
}

type Server struct {
	engine    *gin.Engine
	analyzer  Analyzer
	providers func() []enrichment.Status
	logger    *zap.Logger
	version   string
}

type health struct {
	Status    string              `json:"status"`
	Service   string              `json:"service"`
	Version   string              `json:"version"`
	Providers []enrichment.Status `json:"providers"`
	Time      time.Time           `json:"time"`
}

// singleKindRoutes maps the single-enrichment endpoints to their kind.
var singleKindRoutes = map[string]enrichment.Kind{
	"/ai-profile": enrichment.KindProfileAudit,
	"/swot":       enrichment.KindSWOT,
	"/repo":       enrichment.KindRepoAudit,
	"/resume":     enrichment.KindResumeComparison,
	"/match-role": enrichment.KindRoleFit,
}

func New(cfg Config) (*Server, error) {
	if cfg.Analyzer == nil {
		return nil, errors.New("analyzer is required")
	}

	s := &Server{
		analyzer:  cfg.Analyzer,
		providers: cfg.Providers,
		logger:    cfg.Logger,
		version:   cfg.Version,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.providers == nil {
		s.providers = func() []enrichment.Status { return nil }
	}
	if s.version == "" {
		s.version = "unknown"
	}

	rec := cfg.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}

	engine := gin.New()
	engine.Use(recovery(s.logger), accessLog(s.logger, rec), cors.New(corsConfig(cfg.AllowOrigins)))

	engine.GET("/", s.health)
	engine.GET("/healthz", s.health)
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := engine.Group("/api/analyze-all")
	api.POST("", s.analyze)
	for path, kind := range singleKindRoutes {
		api.POST(path, s.enrich(kind))
	}

	s.engine = engine
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       corsMaxAge,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Handler returns the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is done and then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	providers := s.providers()
	if providers == nil {
		providers = []enrichment.Status{}
	}

	// Without a provider every enrichment is a stub, which is still a valid answer.
	status := statusDegraded
	for _, p := range providers {
		if p.Enabled {
			status = statusOK
			break
		}
	}

	c.JSON(http.StatusOK, health{
		Status:    status,
		Service:   service,
		Version:   s.version,
		Providers: providers,
		Time:      time.Now().UTC(),
	})
}

func (s *Server) analyze(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}

	out, err := s.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		abort(c, s.logger, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) enrich(kind enrichment.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := s.bind(c)
		if !ok {
			return
		}

		out, err := s.analyzer.Enrich(c.Request.Context(), req, kind)
		if err != nil {
			abort(c, s.logger, err)
			return
		}

		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) bind(c *gin.Context) (analysis.Request, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req analysis.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, s.logger, fmt.Errorf("%w: %w", errMalformedBody, err))
		return analysis.Request{}, false
	}
	return req, true
}
