package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hireability/internal/ai"
	"github.com/spigell/hireability/internal/ai/gemini"
	"github.com/spigell/hireability/internal/ai/groq"
	"github.com/spigell/hireability/internal/analysis"
	"github.com/spigell/hireability/internal/enrichment"
	"github.com/spigell/hireability/internal/github"
	"github.com/spigell/hireability/internal/metrics"
	"github.com/spigell/hireability/internal/scoring"
	"github.com/spigell/hireability/internal/secrets"
	"go.uber.org/zap"
)

const providerNone = "none"

// pipeline is everything a command needs to run analyses.
type pipeline struct {
	service      *analysis.Service
	orchestrator *enrichment.Orchestrator
}

type recorder interface {
	enrichment.Recorder
	analysis.Recorder
}

func newPipeline(ctx context.Context, config *Config, logger *zap.Logger, rec recorder) (*pipeline, error) {
	def, err := analysisDefaults(config.Analysis)
	if err != nil {
		return nil, err
	}

	token, err := secrets.Optional(secrets.Source{
		Name:  "github token",
		File:  config.GitHub.TokenFile,
		Value: config.GitHub.Token,
		Env:   "GITHUB_TOKEN",
	})
	if err != nil {
		return nil, err
	}

	gh := github.New(logger.With(zap.String("component", "github")), token, config.GitHub.Timeout)
	if config.GitHub.APIURL != "" {
		gh.APIURL = config.GitHub.APIURL
	}

	primary, err := newProvider(ctx, config.AI.Primary, config.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("primary ai provider: %w", err)
	}
	secondary, err := newProvider(ctx, config.AI.Secondary, config.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("secondary ai provider: %w", err)
	}

	enrichmentCfg := enrichment.Config{
		Primary:      primary,
		Secondary:    secondary,
		CallTimeout:  config.Enrichment.CallTimeout,
		GroupTimeout: config.Enrichment.GroupTimeout,
		Logger:       logger.With(zap.String("component", "enrichment")),
	}
	serviceCfg := analysis.Config{
		Source:       gh,
		Logger:       logger,
		ImpactPreset: def.impact,
		Difficulty:   def.difficulty,
		Strictness:   def.strictness,
		Kinds:        def.kinds,
	}
	if rec != nil {
		enrichmentCfg.Recorder = rec
		serviceCfg.Recorder = rec
	}

	orchestrator := enrichment.New(enrichmentCfg)
	serviceCfg.Enricher = orchestrator

	service, err := analysis.New(serviceCfg)
	if err != nil {
		return nil, err
	}

	for _, status := range orchestrator.Providers() {
		logger.Info("ai provider slot",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	return &pipeline{service: service, orchestrator: orchestrator}, nil
}

// newProvider returns a nil provider when the slot is disabled or its key is missing.
func newProvider(ctx context.Context, name string, cfg AIConfig, logger *zap.Logger) (ai.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", providerNone:
		return nil, nil
	case groq.ProviderName:
		apiKey, err := secrets.Optional(secrets.Source{
			Name:  "groq api key",
			File:  cfg.Groq.APIKeyFile,
			Value: cfg.Groq.APIKey,
			Env:   "GROQ_API_KEY",
		})
		if err != nil || apiKey == "" {
			return nil, err
		}

		provider, err := groq.New(groq.Config{
			APIKey:        apiKey,
			Model:         cfg.Groq.Model,
			BaseURL:       cfg.Groq.BaseURL,
			RatePerSecond: cfg.Groq.RatePerSecond,
			Burst:         cfg.Groq.Burst,
			MaxRetries:    cfg.Groq.MaxRetries,
			MaxLogLength:  cfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case gemini.ProviderName:
		apiKey, err := secrets.Optional(secrets.Source{
			Name:  "gemini api key",
			File:  cfg.Gemini.APIKeyFile,
			Value: cfg.Gemini.APIKey,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil || apiKey == "" {
			return nil, err
		}

		provider, err := gemini.New(ctx, apiKey, cfg.Gemini.Model, logger, cfg.MaxLogLength)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", name)
	}
}

type defaults struct {
	difficulty scoring.Difficulty
	strictness enrichment.Strictness
	impact     metrics.ImpactPreset
	kinds      []enrichment.Kind
}

// analysisDefaults validates the analysis section. Kinds that need request
// input are rejected.
func analysisDefaults(cfg AnalysisConfig) (defaults, error) {
	var (
		d   defaults
		err error
	)

	if d.difficulty, err = scoring.ParseDifficulty(cfg.Difficulty); err != nil {
		return defaults{}, fmt.Errorf("analysis.difficulty: %w", err)
	}
	if d.strictness, err = enrichment.ParseStrictness(cfg.Strictness); err != nil {
		return defaults{}, fmt.Errorf("analysis.strictness: %w", err)
	}
	if d.impact, err = metrics.ImpactPresetByName(cfg.ImpactPreset); err != nil {
		return defaults{}, fmt.Errorf("analysis.impact-preset: %w", err)
	}

	for _, raw := range cfg.Kinds {
		kind, err := enrichment.ParseKind(raw)
		if err != nil {
			return defaults{}, fmt.Errorf("analysis.kinds: %w", err)
		}
		switch kind {
		case enrichment.KindRepoAudit, enrichment.KindResumeComparison, enrichment.KindRoleFit:
			return defaults{}, fmt.Errorf("analysis.kinds: %s needs per-request input and cannot be a default", kind)
		}
		d.kinds = append(d.kinds, kind)
	}

	return d, nil
}
