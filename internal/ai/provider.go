package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Prompt is a structured request for a JSON answer.
type Prompt struct {
	// Kind names the enrichment the prompt belongs to; it is only used for logging.
	Kind string
	// System carries the instructions and the expected output schema.
	System string
	// Input is the data the instructions refer to. Strings are sent as is,
	// anything else is sent as indented JSON.
	Input any
}

// UserContent renders Input as the user message.
func (p Prompt) UserContent() (string, error) {
	switch v := p.Input.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal prompt input: %w", err)
		}
		return string(data), nil
	}
}

// Provider is an AI backend that answers a prompt with a JSON document.
// Errors returned by GenerateJSON match either ErrTransport or ErrParse.
type Provider interface {
	Name() string
	Model() string
	GenerateJSON(ctx context.Context, prompt Prompt) (json.RawMessage, error)
}
