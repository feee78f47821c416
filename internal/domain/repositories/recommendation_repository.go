package repositories

import (
	"context"
)

// RecommendationRepository abstracts an external text-generation service
// (Anthropic, OpenAI, Ollama). The reply is returned exactly as received;
// callers never parse or validate it.
type RecommendationRepository interface {
	// Name returns the provider identifier (e.g. "anthropic").
	Name() string

	// Recommend sends the prompt and returns the raw textual reply.
	Recommend(ctx context.Context, prompt string) (string, error)
}
