package ai

import "context"

// Asker answers a free-standing prompt with no file attached.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Noop is used when no API key is configured.
type Noop struct{}

func (Noop) Ask(ctx context.Context, prompt string) (string, error) {
	return "", newError(KindNotConfigured, "ask", "gemini not configured", nil)
}
