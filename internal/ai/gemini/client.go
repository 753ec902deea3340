package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/hireability/internal/ai"
	"github.com/spigell/hireability/internal/logger"
	"github.com/spigell/hireability/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderName        = "gemini"
	defaultModel        = "gemini-2.0-flash"
	defaultMaxLogLength = 200

	jsonOnlyInstruction = "\nIMPORTANT: Respond ONLY with valid JSON. No markdown, no code fences, no extra text."
)

type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider answers prompts with the Gemini API in JSON mode.
type Provider struct {
	models    contentModels
	model     string
	logger    *zap.Logger
	maxLogLen int
}

// New creates a Provider configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, log *zap.Logger, maxLogLength int) (*Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newProvider(client.Models, model, log, maxLogLength), nil
}

func newProvider(models contentModels, model string, log *zap.Logger, maxLogLength int) *Provider {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Provider{
		models:    models,
		model:     model,
		logger:    logger.WithCommonFields(log, ProviderName, model),
		maxLogLen: maxLogLength,
	}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Model() string {
	if p == nil {
		return ""
	}
	return p.model
}

// GenerateJSON sends the prompt with the system instruction set and the JSON
// response MIME type requested.
func (p *Provider) GenerateJSON(ctx context.Context, prompt ai.Prompt) (json.RawMessage, error) {
	if p == nil || p.models == nil {
		return nil, ai.TransportError(ProviderName, errors.New("gemini provider is not initialized"))
	}

	content, err := prompt.UserContent()
	if err != nil {
		return nil, ai.TransportError(ProviderName, err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt.System + jsonOnlyInstruction}},
		},
	}

	p.logger.Debug("gemini generate content request",
		logger.KindField(prompt.Kind),
		zap.Int("prompt_length", utf8.RuneCountInString(content)),
		zap.String("prompt_preview", utils.TruncateForLog(content, p.maxLogLen)),
	)

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(content), config)
	if err != nil {
		return nil, ai.TransportError(ProviderName, fmt.Errorf("generate content: %w", err))
	}

	text := responseText(resp)

	p.logger.Debug("gemini generate content response",
		logger.KindField(prompt.Kind),
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, p.maxLogLen)),
	)

	if text == "" {
		return nil, ai.ParseError(ProviderName, errors.New("gemini api returned empty response"))
	}

	return ai.DecodeObject(ProviderName, text)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate carrying text is used.
		if builder.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(builder.String())
}
