package llm

import (
	"context"
	"errors"
)

// Client abstracts generative providers that can answer with schema-shaped JSON.
type Client interface {
	// GenerateJSON sends one prompt and returns the model's raw text output.
	GenerateJSON(ctx context.Context, req Request) (string, error)
}

// Request is a single structured-output completion.
type Request struct {
	Prompt string
	Schema *Schema
}

// ErrNotConfigured is returned when no provider credentials are available.
var ErrNotConfigured = errors.New("LLM client not configured")
