//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/reqscan/internal/domain/commands"
	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

// StubRecommendCommand is a stub implementation of commands.Recommend.
type StubRecommendCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Reply            string
	LastSettings     *entities.Settings
}

var _ commands.Recommend = (*StubRecommendCommand)(nil)

func (s *StubRecommendCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
) (string, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	if s.ExecuteErr != nil {
		return "", s.ExecuteErr
	}
	return s.Reply, nil
}
