package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/spigell/hireability/internal/ai"
	"github.com/spigell/hireability/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeModels struct {
	mu     sync.Mutex
	resp   *genai.GenerateContentResponse
	err    error
	calls  int
	model  string
	config *genai.GenerateContentConfig
	text   string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.model = model
	f.config = config
	for _, content := range contents {
		for _, part := range content.Parts {
			f.text += part.Text
		}
	}
	return f.resp, f.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestProviderGenerateJSON(t *testing.T) {
	models := &fakeModels{resp: textResponse("```json\n{\"profileScore\": 80}\n```")}
	provider := newProvider(models, "", zap.NewNop(), 0)

	raw, err := provider.GenerateJSON(context.Background(), ai.Prompt{
		Kind:   "swot",
		System: "Perform a SWOT analysis.",
		Input:  map[string]any{"username": "octocat"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(raw) != `{"profileScore": 80}` {
		t.Fatalf("unexpected payload: %s", raw)
	}

	if models.model != defaultModel {
		t.Fatalf("expected default model %q, got %q", defaultModel, models.model)
	}

	if models.config == nil || models.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON response mime type, got %+v", models.config)
	}

	system := models.config.SystemInstruction.Parts[0].Text
	if !strings.HasPrefix(system, "Perform a SWOT analysis.") || !strings.Contains(system, "valid JSON") {
		t.Fatalf("unexpected system instruction: %q", system)
	}

	if !strings.Contains(models.text, `"username": "octocat"`) {
		t.Fatalf("expected input to be sent as JSON, got %q", models.text)
	}
}

func TestProviderClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		models *fakeModels
		class  error
	}{
		{
			name:   "api error",
			models: &fakeModels{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
			class:  ai.ErrTransport,
		},
		{
			name:   "empty response",
			models: &fakeModels{resp: &genai.GenerateContentResponse{}},
			class:  ai.ErrParse,
		},
		{
			name:   "prose instead of json",
			models: &fakeModels{resp: textResponse("Sure! Here is your analysis.")},
			class:  ai.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newProvider(tt.models, "gemini-pro", zap.NewNop(), 50)
			_, err := provider.GenerateJSON(context.Background(), ai.Prompt{System: "sys", Input: "data"})
			if !errors.Is(err, tt.class) {
				t.Fatalf("expected %v, got %v", tt.class, err)
			}
		})
	}

	var nilProvider *Provider
	if _, err := nilProvider.GenerateJSON(context.Background(), ai.Prompt{}); !errors.Is(err, ai.ErrTransport) {
		t.Fatalf("expected transport error from nil provider, got %v", err)
	}
}

func TestProviderLogsWithProviderFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	models := &fakeModels{resp: textResponse(`{"ok": true}`)}
	provider := newProvider(models, "gemini-pro", zap.New(core), 5)

	if _, err := provider.GenerateJSON(context.Background(), ai.Prompt{Kind: "roleFit", System: "sys", Input: "a long input string"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected request and response entries, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	if ctx[logger.FieldProvider] != ProviderName || ctx[logger.FieldModel] != "gemini-pro" {
		t.Fatalf("unexpected provider fields: %v", ctx)
	}
	if ctx[logger.FieldKind] != "roleFit" {
		t.Fatalf("expected kind field, got %v", ctx)
	}
	if ctx["prompt_preview"] != "a lon..." {
		t.Fatalf("expected truncated preview, got %q", ctx["prompt_preview"])
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), "  ", "", zap.NewNop(), 0); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestResponseTextUsesFirstCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: &genai.Content{Parts: []*genai.Part{{Text: " {\"a\":"}, nil, {Text: "1}"}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "ignored"}}}},
		},
	}

	if got := responseText(resp); got != "{\"a\":\n1}" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Fatalf("expected empty text for nil response, got %q", got)
	}
}
