package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/logger"
	"github.com/spigell/hireability/internal/metrics"
	"github.com/spigell/hireability/internal/report"
	"github.com/spigell/hireability/internal/scoring"
	"github.com/spigell/hireability/internal/snapshot"
	"go.uber.org/zap"
)

const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

var (
	ErrSnapshotUnavailable = errors.New("activity snapshot unavailable")
	ErrRepoNotFound        = errors.New("repository not found")
)

// SnapshotSource produces the activity snapshot of an account.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context, login string) (*snapshot.Snapshot, error)
}

type Enricher interface {
	Run(ctx context.Context, requests []enrichment.Request) enrichment.Results
}

type Recorder interface {
	ObserveAnalysis(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(string, time.Duration) {}

type Config struct {
	Source       SnapshotSource
	Enricher     Enricher
	Logger       *zap.Logger
	Recorder     Recorder
	ImpactPreset metrics.ImpactPreset
	// Difficulty and Strictness apply when a request leaves them empty.
	Difficulty scoring.Difficulty
	Strictness enrichment.Strictness
	// Kinds are requested by a full analysis that names none.
	Kinds []enrichment.Kind
	Now   func() time.Time
}

type Service struct {
	source     SnapshotSource
	enricher   Enricher
	logger     *zap.Logger
	recorder   Recorder
	impact     metrics.ImpactPreset
	difficulty scoring.Difficulty
	strictness enrichment.Strictness
	kinds      []enrichment.Kind
	now        func() time.Time
}

func New(cfg Config) (*Service, error) {
	if cfg.Source == nil {
		return nil, errors.New("snapshot source is required")
	}
	if cfg.Enricher == nil {
		return nil, errors.New("enricher is required")
	}

	s := &Service{
		source:     cfg.Source,
		enricher:   cfg.Enricher,
		logger:     cfg.Logger,
		recorder:   cfg.Recorder,
		impact:     cfg.ImpactPreset,
		difficulty: cfg.Difficulty,
		strictness: cfg.Strictness,
		kinds:      cfg.Kinds,
		now:        cfg.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.impact.Name == "" {
		s.impact = metrics.ImpactActivity
	}
	if s.difficulty == "" {
		s.difficulty = scoring.DifficultyNormal
	}
	if s.strictness == "" {
		s.strictness = enrichment.StrictnessNormal
	}
	if len(s.kinds) == 0 {
		s.kinds = enrichment.DefaultKinds()
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s, nil
}

// Analyze runs the full pipeline for one account. Enrichment runs alongside
// scoring and never fails the call; everything before it does.
func (s *Service) Analyze(ctx context.Context, req Request) (report.Report, error) {
	started := time.Now()
	requestID := uuid.NewString()

	p, err := s.validate(req)
	if err != nil {
		s.recorder.ObserveAnalysis(OutcomeInvalid, time.Since(started))
		return report.Report{}, err
	}

	log := logger.WithFields(s.logger, logger.RequestFields(requestID, p.login)...)
	log.Info("analysis started", zap.Strings("kinds", kindNames(p.kinds)), zap.String("difficulty", string(p.difficulty)))

	snap, subject, err := s.prepare(ctx, p)
	if err != nil {
		s.fail(log, err, started)
		return report.Report{}, err
	}

	requests := make([]enrichment.Request, 0, len(p.kinds))
	for _, kind := range p.kinds {
		r, err := enrichment.BuildRequest(kind, subject, p.options)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
			s.fail(log, err, started)
			return report.Report{}, err
		}
		requests = append(requests, r)
	}

	enriched := make(chan enrichment.Results, 1)
	go func() {
		enriched <- s.enricher.Run(ctx, requests)
	}()

	odds := scoring.Score(subject.Analysis.Bundle, p.difficulty)
	results := <-enriched

	out := report.Assemble(report.Input{
		RequestID: requestID,
		Snapshot:  snap,
		Analysis:  subject.Analysis,
		Odds:      odds,
		Requested: requests,
		Results:   results,
		Settings: report.Settings{
			Difficulty:   p.difficulty,
			Strictness:   p.strictness,
			ImpactPreset: s.impact.Name,
		},
		Now: s.now(),
	})

	stubbed := 0
	for _, e := range out.Enrichment {
		if !e.FromProvider() {
			stubbed++
		}
	}

	s.recorder.ObserveAnalysis(OutcomeOK, time.Since(started))
	log.Info("analysis finished",
		zap.Int("junior", odds.Junior.Score),
		zap.Int("senior", odds.Senior.Score),
		zap.Int("stubbed_enrichments", stubbed),
		zap.Duration("elapsed", time.Since(started)),
	)

	return out, nil
}

// Enrich runs a single enrichment kind and resolves it, stub included.
func (s *Service) Enrich(ctx context.Context, req Request, kind enrichment.Kind) (report.Enrichment, error) {
	started := time.Now()

	p, err := s.validate(req, kind)
	if err != nil {
		s.recorder.ObserveAnalysis(OutcomeInvalid, time.Since(started))
		return report.Enrichment{}, err
	}

	log := logger.WithFields(s.logger, logger.RequestFields(uuid.NewString(), p.login)...)

	_, subject, err := s.prepare(ctx, p)
	if err != nil {
		s.fail(log, err, started)
		return report.Enrichment{}, err
	}

	r, err := enrichment.BuildRequest(kind, subject, p.options)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		s.fail(log, err, started)
		return report.Enrichment{}, err
	}

	results := s.enricher.Run(ctx, []enrichment.Request{r})
	resolved := report.Resolve(kind, results[kind], r.StubInput())

	s.recorder.ObserveAnalysis(OutcomeOK, time.Since(started))
	log.Info("enrichment finished",
		logger.KindField(string(kind)),
		zap.String("source", resolved.Source),
		zap.Duration("elapsed", time.Since(started)),
	)

	return resolved, nil
}

// prepare fetches the snapshot, checks the named repository and computes the
// deterministic metrics.
func (s *Service) prepare(ctx context.Context, p plan) (*snapshot.Snapshot, enrichment.Subject, error) {
	snap, err := s.source.FetchSnapshot(ctx, p.login)
	if err != nil {
		return nil, enrichment.Subject{}, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
	}
	if snap == nil {
		return nil, enrichment.Subject{}, fmt.Errorf("%w: empty snapshot for %s", ErrSnapshotUnavailable, p.login)
	}

	if p.wants(enrichment.KindRepoAudit) {
		if _, ok := snap.FindRepository(p.options.RepoName); !ok {
			return nil, enrichment.Subject{}, fmt.Errorf("%w: %s/%s", ErrRepoNotFound, p.login, p.options.RepoName)
		}
	}

	analysis := metrics.Compute(snap, metrics.Options{Impact: s.impact, Now: s.now()})
	return snap, enrichment.Subject{Snapshot: snap, Analysis: analysis}, nil
}

func (s *Service) fail(log *zap.Logger, err error, started time.Time) {
	outcome := OutcomeUnavailable
	switch {
	case IsInvalid(err):
		outcome = OutcomeInvalid
	case IsNotFound(err):
		outcome = OutcomeNotFound
	}
	s.recorder.ObserveAnalysis(outcome, time.Since(started))
	log.Warn("analysis failed", zap.String("outcome", outcome), zap.Error(err))
}

func kindNames(kinds []enrichment.Kind) []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return names
}
