package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks network, HTTP status and availability failures.
	ErrTransport = errors.New("provider transport failure")
	// ErrParse marks answers that are not well-formed structured data.
	ErrParse = errors.New("provider response is not valid structured data")
)

// ProviderError tells which provider failed and how.
type ProviderError struct {
	Provider string
	Class    error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Class)
	}
	return fmt.Sprintf("%s: %v: %v", e.Provider, e.Class, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

func TransportError(provider string, err error) error {
	return &ProviderError{Provider: provider, Class: ErrTransport, Err: err}
}

func ParseError(provider string, err error) error {
	return &ProviderError{Provider: provider, Class: ErrParse, Err: err}
}
