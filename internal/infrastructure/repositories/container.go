package repositories

import (
	"github.com/rios0rios0/reqscan/internal/domain/entities"
	anthropicRepo "github.com/rios0rios0/reqscan/internal/infrastructure/repositories/anthropic"
	fsRepo "github.com/rios0rios0/reqscan/internal/infrastructure/repositories/filesystem"
	ollamaRepo "github.com/rios0rios0/reqscan/internal/infrastructure/repositories/ollama"
	openaiRepo "github.com/rios0rios0/reqscan/internal/infrastructure/repositories/openai"
	"go.uber.org/dig"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Filesystem-backed manifest discovery and report storage
	if err := container.Provide(fsRepo.NewManifestRepository); err != nil {
		return err
	}
	if err := container.Provide(fsRepo.NewReportRepository); err != nil {
		return err
	}

	// Register recommendation registry with all provider factories
	if err := container.Provide(func() *RecommendationRegistry {
		reg := NewRecommendationRegistry()
		reg.Register(entities.ProviderAnthropic, anthropicRepo.NewRecommendationRepository)
		reg.Register(entities.ProviderOpenAI, openaiRepo.NewRecommendationRepository)
		reg.Register(entities.ProviderOllama, ollamaRepo.NewRecommendationRepository)
		return reg
	}); err != nil {
		return err
	}

	return nil
}
