package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/hireability/internal/ai"
	"github.com/spigell/hireability/internal/logger"
	"github.com/spigell/hireability/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	ProviderName = "groq"

	defaultBaseURL      = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel        = "llama-3.3-70b-versatile"
	defaultTemperature  = 0.7
	defaultRetryBackoff = 500 * time.Millisecond
	defaultMaxLogLength = 200
	errorBodyLimit      = 2048

	jsonOnlyInstruction = "\nIMPORTANT: Respond ONLY with valid JSON."
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// RatePerSecond limits outgoing requests; zero disables the limiter.
	RatePerSecond float64
	Burst         int
	// MaxRetries is the number of extra attempts after a 429 or 5xx answer.
	MaxRetries   int
	RetryBackoff time.Duration
	MaxLogLength int
	HTTPClient   *http.Client
}

// Provider calls the Groq chat completions API (OpenAI compatible) in JSON mode.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	maxLogLen  int
}

func New(cfg Config, log *zap.Logger) (*Provider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("groq api key is required")
	}

	p := &Provider{
		apiKey:     apiKey,
		model:      strings.TrimSpace(cfg.Model),
		baseURL:    strings.TrimSpace(cfg.BaseURL),
		http:       cfg.HTTPClient,
		maxRetries: max(cfg.MaxRetries, 0),
		backoff:    cfg.RetryBackoff,
		maxLogLen:  cfg.MaxLogLength,
	}

	if p.model == "" {
		p.model = defaultModel
	}
	if p.baseURL == "" {
		p.baseURL = defaultBaseURL
	}
	if p.http == nil {
		// Deadlines come from the caller's context.
		p.http = &http.Client{}
	}
	if p.backoff <= 0 {
		p.backoff = defaultRetryBackoff
	}
	if p.maxLogLen <= 0 {
		p.maxLogLen = defaultMaxLogLength
	}
	if cfg.RatePerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), max(cfg.Burst, 1))
	}

	p.logger = logger.WithCommonFields(log, ProviderName, p.model)

	return p, nil
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Model() string {
	if p == nil {
		return ""
	}
	return p.model
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *Provider) GenerateJSON(ctx context.Context, prompt ai.Prompt) (json.RawMessage, error) {
	if p == nil {
		return nil, ai.TransportError(ProviderName, errors.New("groq provider is not initialized"))
	}

	content, err := prompt.UserContent()
	if err != nil {
		return nil, ai.TransportError(ProviderName, err)
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System + jsonOnlyInstruction},
			{Role: "user", Content: content},
		},
		Temperature:    defaultTemperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, ai.TransportError(ProviderName, fmt.Errorf("marshal request: %w", err))
	}

	p.logger.Debug("groq chat completion request",
		logger.KindField(prompt.Kind),
		zap.Int("prompt_length", utf8.RuneCountInString(content)),
		zap.String("prompt_preview", utils.TruncateForLog(content, p.maxLogLen)),
	)

	for attempt := 0; ; attempt++ {
		raw, retryable, err := p.complete(ctx, body, prompt.Kind)
		if err == nil {
			return raw, nil
		}
		if !retryable || attempt >= p.maxRetries {
			return nil, err
		}

		p.logger.Debug("retrying groq request",
			logger.KindField(prompt.Kind),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		if waitErr := utils.WaitFor(ctx, p.backoff*time.Duration(attempt+1)); waitErr != nil {
			return nil, err
		}
	}
}

// complete performs one HTTP round trip. The boolean reports whether the
// failure is worth retrying.
func (p *Provider) complete(ctx context.Context, body []byte, kind string) (json.RawMessage, bool, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, false, ai.TransportError(ProviderName, fmt.Errorf("rate limiter: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, false, ai.TransportError(ProviderName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, ai.TransportError(ProviderName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, ai.TransportError(ProviderName,
			fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(detail))))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, ai.ParseError(ProviderName, fmt.Errorf("decode completion: %w", err))
	}
	if len(out.Choices) == 0 {
		return nil, false, ai.ParseError(ProviderName, errors.New("completion has no choices"))
	}

	text := out.Choices[0].Message.Content

	p.logger.Debug("groq chat completion response",
		logger.KindField(kind),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, p.maxLogLen)),
	)

	raw, err := ai.DecodeObject(ProviderName, text)
	return raw, false, err
}
