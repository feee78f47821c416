//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"io/fs"
	"sync"

	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

// SpyReportRepository implements repositories.ReportRepository in memory.
// Saved reports can be loaded back.
type SpyReportRepository struct {
	// --- Prepare ---
	PrepareErr   error
	PreparedDirs []string

	// --- Save ---
	SaveErr    error
	SavedPaths []string

	// --- Load ---
	Reports map[string]string // keyed by path, shared with Save

	mu sync.Mutex
}

var _ repositories.ReportRepository = (*SpyReportRepository)(nil)

func (s *SpyReportRepository) Prepare(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PreparedDirs = append(s.PreparedDirs, dir)
	return s.PrepareErr
}

func (s *SpyReportRepository) Save(path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Reports == nil {
		s.Reports = make(map[string]string)
	}
	s.Reports[path] = content
	s.SavedPaths = append(s.SavedPaths, path)
	return nil
}

func (s *SpyReportRepository) Load(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.Reports[path]
	if !ok {
		return "", fmt.Errorf("failed to read report %q: %w", path, fs.ErrNotExist)
	}
	return content, nil
}
