package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/hireability/internal/ai"
	"github.com/spigell/hireability/internal/logger"
	"go.uber.org/zap"
)

const (
	DefaultCallTimeout  = 12 * time.Second
	DefaultGroupTimeout = 25 * time.Second

	ResultProvider  = "provider"
	ResultFailed    = "failed"
	ResultTimeout   = "timeout"
	ResultCancelled = "cancelled"
)

var (
	ErrOrchestrationTimeout = errors.New("enrichment deadline elapsed")
	ErrEnrichmentCancelled  = errors.New("enrichment cancelled")
)

// Recorder observes provider calls and settled outcomes.
type Recorder interface {
	ObserveProviderCall(provider, kind string, elapsed time.Duration, err error)
	ObserveEnrichment(kind, result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveProviderCall(string, string, time.Duration, error) {}
func (nopRecorder) ObserveEnrichment(string, string)                         {}

// Outcome is the settled result of one kind. Exactly one of Data and Err is set.
type Outcome struct {
	Kind     Kind
	Provider string
	Model    string
	Data     any
	Err      error
	Elapsed  time.Duration
}

func (o Outcome) OK() bool {
	return o.Err == nil && o.Data != nil
}

type Results map[Kind]Outcome

type Config struct {
	Primary      ai.Provider
	Secondary    ai.Provider
	CallTimeout  time.Duration
	GroupTimeout time.Duration
	Logger       *zap.Logger
	Recorder     Recorder
}

// Status describes one provider slot for health reporting.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type Orchestrator struct {
	providers    []ai.Provider
	statuses     []Status
	callTimeout  time.Duration
	groupTimeout time.Duration
	logger       *zap.Logger
	recorder     Recorder
}

func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		callTimeout:  cfg.CallTimeout,
		groupTimeout: cfg.GroupTimeout,
		logger:       cfg.Logger,
		recorder:     cfg.Recorder,
	}
	if o.callTimeout <= 0 {
		o.callTimeout = DefaultCallTimeout
	}
	if o.groupTimeout <= 0 {
		o.groupTimeout = DefaultGroupTimeout
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}

	for _, slot := range []struct {
		role     string
		provider ai.Provider
	}{
		{"primary", cfg.Primary},
		{"secondary", cfg.Secondary},
	} {
		if slot.provider == nil {
			o.statuses = append(o.statuses, Status{
				Name:    slot.role,
				Reason:  "not configured",
				Details: map[string]string{"role": slot.role},
			})
			continue
		}
		o.providers = append(o.providers, slot.provider)
		o.statuses = append(o.statuses, Status{
			Name:    slot.provider.Name(),
			Enabled: true,
			Details: map[string]string{"role": slot.role, "model": slot.provider.Model()},
		})
	}

	return o
}

// Providers reports the configured provider slots in call order.
func (o *Orchestrator) Providers() []Status {
	out := make([]Status, len(o.statuses))
	copy(out, o.statuses)
	return out
}

// Run issues every request concurrently and settles each kind within the
// group deadline. Kinds still in flight when the deadline passes are reported
// with ErrOrchestrationTimeout, or with ErrEnrichmentCancelled when ctx is
// cancelled first. Their calls are cancelled but not awaited.
func (o *Orchestrator) Run(ctx context.Context, requests []Request) Results {
	results := make(Results, len(requests))

	unique := make([]Request, 0, len(requests))
	seen := make(map[Kind]struct{}, len(requests))
	for _, req := range requests {
		if _, ok := seen[req.Kind]; ok {
			continue
		}
		seen[req.Kind] = struct{}{}
		if req.Prompt.Kind == "" {
			req.Prompt.Kind = string(req.Kind)
		}
		unique = append(unique, req)
	}
	if len(unique) == 0 {
		return results
	}

	started := time.Now()
	groupCtx, cancel := context.WithTimeout(ctx, o.groupTimeout)
	defer cancel()

	settled := make(chan Outcome, len(unique))
	for _, req := range unique {
		go func(req Request) {
			defer func() {
				if r := recover(); r != nil {
					settled <- Outcome{Kind: req.Kind, Err: fmt.Errorf("enrichment %s panicked: %v", req.Kind, r)}
				}
			}()
			settled <- o.enrich(groupCtx, req)
		}(req)
	}

	for pending := len(unique); pending > 0; pending-- {
		select {
		case outcome := <-settled:
			results[outcome.Kind] = outcome
			o.settle(outcome)
		case <-groupCtx.Done():
			reason, elapsed := ErrOrchestrationTimeout, o.groupTimeout
			if errors.Is(groupCtx.Err(), context.Canceled) {
				reason, elapsed = ErrEnrichmentCancelled, time.Since(started)
			}
			for _, req := range unique {
				if _, ok := results[req.Kind]; ok {
					continue
				}
				outcome := Outcome{
					Kind:    req.Kind,
					Err:     fmt.Errorf("%w: %w", reason, groupCtx.Err()),
					Elapsed: elapsed,
				}
				results[req.Kind] = outcome
				o.settle(outcome)
			}
			return results
		}
	}

	return results
}

func (o *Orchestrator) settle(outcome Outcome) {
	kind := string(outcome.Kind)
	switch {
	case outcome.OK():
		o.recorder.ObserveEnrichment(kind, ResultProvider)
	case errors.Is(outcome.Err, ErrOrchestrationTimeout):
		o.recorder.ObserveEnrichment(kind, ResultTimeout)
		o.logger.Warn("enrichment timed out", logger.KindField(kind), zap.Error(outcome.Err))
	case errors.Is(outcome.Err, ErrEnrichmentCancelled):
		o.recorder.ObserveEnrichment(kind, ResultCancelled)
		o.logger.Info("enrichment cancelled", logger.KindField(kind))
	default:
		o.recorder.ObserveEnrichment(kind, ResultFailed)
		o.logger.Warn("enrichment failed", logger.KindField(kind), zap.Error(outcome.Err))
	}
}

// enrich walks the providers in order until one returns a decodable answer.
func (o *Orchestrator) enrich(ctx context.Context, req Request) Outcome {
	started := time.Now()
	kind := string(req.Kind)

	if len(o.providers) == 0 {
		return Outcome{
			Kind:    req.Kind,
			Err:     ai.TransportError("none", errors.New("no AI provider configured")),
			Elapsed: time.Since(started),
		}
	}

	var errs []error
	for i, provider := range o.providers {
		value, err := o.call(ctx, provider, req)
		if err == nil {
			return Outcome{
				Kind:     req.Kind,
				Provider: provider.Name(),
				Model:    provider.Model(),
				Data:     value,
				Elapsed:  time.Since(started),
			}
		}
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
		if i < len(o.providers)-1 {
			o.logger.Warn("enrichment provider failed, falling back",
				logger.KindField(kind),
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
		}
	}

	return Outcome{Kind: req.Kind, Err: errors.Join(errs...), Elapsed: time.Since(started)}
}

func (o *Orchestrator) call(ctx context.Context, provider ai.Provider, req Request) (any, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	started := time.Now()
	raw, err := provider.GenerateJSON(callCtx, req.Prompt)

	var value any
	if err == nil {
		if value, err = decode(req, raw); err != nil {
			err = ai.ParseError(provider.Name(), err)
		}
	}

	o.recorder.ObserveProviderCall(provider.Name(), string(req.Kind), time.Since(started), err)
	if err != nil {
		return nil, err
	}
	return value, nil
}
