package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	domainRepos "github.com/rios0rios0/reqscan/internal/domain/repositories"
)

// RecommendationFactory is a constructor function that creates a
// RecommendationRepository from the recommendation settings.
type RecommendationFactory func(settings entities.RecommendationSettings) domainRepos.RecommendationRepository

// RecommendationRegistry manages all registered text-generation providers.
type RecommendationRegistry struct {
	providers map[string]RecommendationFactory
}

// NewRecommendationRegistry creates an empty recommendation registry.
func NewRecommendationRegistry() *RecommendationRegistry {
	return &RecommendationRegistry{
		providers: make(map[string]RecommendationFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "anthropic").
func (r *RecommendationRegistry) Register(name string, factory RecommendationFactory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for settings.Provider.
func (r *RecommendationRegistry) Get(
	settings entities.RecommendationSettings,
) (domainRepos.RecommendationRepository, error) {
	factory, ok := r.providers[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown recommendation provider: %q (available: %v)", settings.Provider, r.Names())
	}
	return factory(settings), nil
}

// Names returns the registered provider names in ascending order.
func (r *RecommendationRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
