package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/reqscan/internal/infrastructure/repositories"
)

// Recommend is the interface for the recommend command.
type Recommend interface {
	Execute(ctx context.Context, settings *entities.Settings) (string, error)
}

// RecommendCommand sends the frequency report (and the unique report when
// present) to the configured provider and stores the reply next to them.
type RecommendCommand struct {
	reports  repositories.ReportRepository
	registry *infraRepos.RecommendationRegistry
}

// NewRecommendCommand creates a new RecommendCommand.
func NewRecommendCommand(
	reports repositories.ReportRepository,
	registry *infraRepos.RecommendationRegistry,
) *RecommendCommand {
	return &RecommendCommand{
		reports:  reports,
		registry: registry,
	}
}

// Execute returns the provider's reply. Every failure is reported as a
// *entities.RecommendationUnavailableError so callers can treat it as non-fatal.
func (it *RecommendCommand) Execute(ctx context.Context, settings *entities.Settings) (string, error) {
	providerName := settings.Recommendation.Provider

	frequencyPath := settings.ReportPath(settings.Reports.Frequency)
	frequency, err := it.reports.Load(frequencyPath)
	if err != nil {
		return "", unavailable(providerName, fmt.Errorf("could not read frequency report: %w", err))
	}
	if frequency == "" {
		return "", unavailable(providerName, fmt.Errorf("frequency report %s is empty", frequencyPath))
	}

	unique, err := it.reports.Load(settings.ReportPath(settings.Reports.Unique))
	if err != nil {
		logger.Debugf("[recommend] Unique report not available: %v", err)
		unique = ""
	}

	provider, err := it.registry.Get(settings.Recommendation)
	if err != nil {
		return "", unavailable(providerName, err)
	}

	logger.Infof("[recommend] Running AI analysis using %s...", provider.Name())

	timeout := settings.Recommendation.Timeout
	if timeout <= 0 {
		timeout = entities.DefaultRecommendationTimeout
	}
	requestCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := provider.Recommend(requestCtx, entities.BuildRecommendationPrompt(frequency, unique))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("no reply within %s: %w", timeout, err)
		}
		return "", unavailable(provider.Name(), err)
	}

	outputPath := settings.ReportPath(settings.Reports.Recommendation)
	if saveErr := it.reports.Save(
		outputPath, entities.FormatRecommendationReport(provider.Name(), reply),
	); saveErr != nil {
		logger.Warnf("[recommend] Could not save recommendations: %v", saveErr)
	} else {
		logger.Infof("[recommend] Recommendations saved to: %s", outputPath)
	}

	return reply, nil
}

func unavailable(provider string, err error) error {
	return &entities.RecommendationUnavailableError{Provider: provider, Err: err}
}
