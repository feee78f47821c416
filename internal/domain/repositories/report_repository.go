package repositories

// ReportRepository persists rendered reports.
type ReportRepository interface {
	// Prepare makes sure the output directory exists and is writable.
	Prepare(dir string) error

	// Save writes content to path, replacing any previous file.
	Save(path, content string) error

	// Load reads a previously saved report.
	Load(path string) (string, error)
}
