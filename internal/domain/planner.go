package domain

import (
	"context"
	"fmt"
)

// Completer is the shared chat completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (Completion, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Prompt is one system + user message pair.
type Prompt struct {
	System string
	User   string
}

// Completion carries the model output and token usage through the decorator chain.
type Completion struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// SystemPromptCompleter is a domain decorator that prepends a fixed system instruction.
type SystemPromptCompleter struct {
	inner  Completer
	system string
}

// NewSystemPromptCompleter creates a decorator that prepends system to every prompt.
func NewSystemPromptCompleter(inner Completer, system string) *SystemPromptCompleter {
	return &SystemPromptCompleter{inner: inner, system: system}
}

// Complete prepends the system instruction and delegates to the inner completer.
func (c *SystemPromptCompleter) Complete(ctx context.Context, p Prompt) (Completion, error) {
	switch {
	case c.system == "":
	case p.System == "":
		p.System = c.system
	default:
		p.System = c.system + "\n" + p.System
	}

	res, err := c.inner.Complete(ctx, p)
	if err != nil {
		return Completion{}, fmt.Errorf("system prompt complete: %w", err)
	}
	return res, nil
}
