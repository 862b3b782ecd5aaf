// Package analyzer calls generative text models and turns their replies into
// timeline, evidence and report results.
package analyzer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/robertobuso/legal-evidence-organizer/internal/config"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

// Completer sends one system and one user message and returns the model's
// text reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewCompleter returns the client for provider. The HTTP timeout is the only
// deadline applied to a model call.
func NewCompleter(provider string, cfg *config.Config, logger *utils.Logger) (Completer, error) {
	client := &http.Client{Timeout: cfg.LLMTimeout}

	switch provider {
	case config.ProviderOpenAI:
		return NewOpenAICompleter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, client, logger), nil
	case config.ProviderGemini:
		return NewGeminiCompleter(geminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, client, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// temperature keeps replies close to the requested JSON shape.
const temperature = 0.2
