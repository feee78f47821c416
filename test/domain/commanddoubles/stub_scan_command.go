//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/reqscan/internal/domain/commands"
	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

// StubScanCommand is a stub implementation of commands.Scan.
type StubScanCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *commands.ScanResult
	LastSettings     *entities.Settings
}

var _ commands.Scan = (*StubScanCommand)(nil)

func (s *StubScanCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
) (*commands.ScanResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Result == nil {
		return &commands.ScanResult{Tally: entities.NewTally()}, nil
	}
	return s.Result, nil
}
