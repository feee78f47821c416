//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

// SpyRecommendationRepository implements repositories.RecommendationRepository.
// With BlockUntilDone set, Recommend waits for the context to end.
type SpyRecommendationRepository struct {
	ProviderName   string
	Reply          string
	RecommendErr   error
	BlockUntilDone bool

	Prompts []string
}

var _ repositories.RecommendationRepository = (*SpyRecommendationRepository)(nil)

func (s *SpyRecommendationRepository) Name() string { return s.ProviderName }

func (s *SpyRecommendationRepository) Recommend(ctx context.Context, prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.BlockUntilDone {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.RecommendErr != nil {
		return "", s.RecommendErr
	}
	return s.Reply, nil
}
