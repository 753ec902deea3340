package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ExtractJSON strips markdown code fences that models like to wrap JSON in.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```JSON")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// DecodeObject returns the JSON object contained in raw. Anything that is not a
// single JSON object is rejected with ErrParse.
func DecodeObject(provider, raw string) (json.RawMessage, error) {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return nil, ParseError(provider, errors.New("empty response"))
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &object); err != nil {
		return nil, ParseError(provider, fmt.Errorf("decode response: %w", err))
	}
	if object == nil {
		return nil, ParseError(provider, errors.New("response is null"))
	}

	return json.RawMessage(cleaned), nil
}
