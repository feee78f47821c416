package filesystem

import (
	"fmt"
	"os"

	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

const (
	dirFileMode    = 0o755
	reportFileMode = 0o644
)

// ReportRepository implements repositories.ReportRepository with plain files.
type ReportRepository struct{}

// NewReportRepository creates a new file-backed report store.
func NewReportRepository() repositories.ReportRepository {
	return &ReportRepository{}
}

// Prepare creates dir if needed and probes it with a temporary file, so an
// unwritable output directory is detected before any scanning happens.
func (r *ReportRepository) Prepare(dir string) error {
	if err := os.MkdirAll(dir, dirFileMode); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".reqscan-*")
	if err != nil {
		return fmt.Errorf("output directory %q is not writable: %w", dir, err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return nil
}

// Save writes content to path.
func (r *ReportRepository) Save(path, content string) error {
	if err := os.WriteFile(path, []byte(content), reportFileMode); err != nil {
		return fmt.Errorf("failed to write report %q: %w", path, err)
	}
	return nil
}

// Load reads the report at path.
func (r *ReportRepository) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read report %q: %w", path, err)
	}
	return string(data), nil
}
