package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

// Scan is the interface for the scan command.
type Scan interface {
	Execute(ctx context.Context, settings *entities.Settings) (*ScanResult, error)
}

// ScanResult is what a finished scan hands back to the caller.
type ScanResult struct {
	Tally   *entities.Tally
	Reports []string // paths of the written reports, in render order
}

// ScanCommand walks a directory tree, parses every manifest it finds, folds
// the entries into a tally and writes the four reports.
type ScanCommand struct {
	manifests repositories.ManifestRepository
	reports   repositories.ReportRepository
}

// NewScanCommand creates a new ScanCommand.
func NewScanCommand(
	manifests repositories.ManifestRepository,
	reports repositories.ReportRepository,
) *ScanCommand {
	return &ScanCommand{
		manifests: manifests,
		reports:   reports,
	}
}

// Execute runs one scan. Only a missing root, an unwritable output directory,
// an unreadable root or a cancelled context abort the run; every other
// problem is counted in the tally and logged.
func (it *ScanCommand) Execute(ctx context.Context, settings *entities.Settings) (*ScanResult, error) {
	opts := settings.WalkOptions()
	if err := checkRoot(opts.Root); err != nil {
		return nil, err
	}

	outputDir := entities.ExpandPath(settings.OutputDir)
	if err := it.reports.Prepare(outputDir); err != nil {
		return nil, err
	}

	logger.Infof("[scan] Scanning repository base: %s", opts.Root)

	files, inaccessible, err := it.discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Infof("[scan] Found %d %s file(s)", len(files), opts.ManifestName)

	tally, err := it.parseAll(ctx, files, settings)
	if err != nil {
		return nil, err
	}
	tally.InaccessiblePaths += inaccessible

	written, err := it.writeReports(tally, settings)
	if err != nil {
		return nil, err
	}

	logSummary(tally, written)
	return &ScanResult{Tally: tally, Reports: written}, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("repository base path does not exist: %s", root)
		}
		return &entities.WalkError{Path: root, Root: true, Err: err}
	}
	if !info.IsDir() {
		return fmt.Errorf("repository base path is not a directory: %s", root)
	}
	return nil
}

// discover drains the walker. Subtree errors are counted and skipped.
func (it *ScanCommand) discover(
	ctx context.Context,
	opts entities.WalkOptions,
) ([]entities.DependencyFile, int, error) {
	var files []entities.DependencyFile
	inaccessible := 0

	for file, err := range it.manifests.Walk(ctx, opts) {
		if err == nil {
			logger.Debugf("[scan] Found %s", file.Path)
			files = append(files, file)
			continue
		}

		var walkErr *entities.WalkError
		if !errors.As(err, &walkErr) {
			return nil, inaccessible, fmt.Errorf("scan aborted: %w", err)
		}
		if walkErr.Root {
			return nil, inaccessible, fmt.Errorf("cannot read repository base: %w", err)
		}
		logger.Warnf("[scan] Skipping %s: %v", walkErr.Path, walkErr.Err)
		inaccessible++
	}

	return files, inaccessible, nil
}

// parseAll parses the manifests concurrently. Each worker folds its file into
// a private tally which is merged into the shared one under a lock.
func (it *ScanCommand) parseAll(
	ctx context.Context,
	files []entities.DependencyFile,
	settings *entities.Settings,
) (*entities.Tally, error) {
	workers := settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tally := entities.NewTally()
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			partial := it.parseFile(file, settings.CountMode)

			mu.Lock()
			tally.Merge(partial)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}
	return tally, nil
}

func (it *ScanCommand) parseFile(file entities.DependencyFile, mode entities.CountMode) *entities.Tally {
	partial := entities.NewTally()

	reader, err := it.manifests.Open(file)
	if err != nil {
		logger.Warnf("[scan] Could not read %s: %v", file.Path, err)
		partial.InaccessiblePaths++
		return partial
	}
	defer reader.Close()

	result, err := entities.ParseRequirements(file, reader)
	if err != nil {
		logger.Warnf("[scan] Could not read %s: %v", file.Path, err)
		partial.InaccessiblePaths++
		return partial
	}

	for _, issue := range result.Issues {
		logger.Debugf("[scan] %s:%d: %v", file.Path, issue.Line, issue.Err)
	}

	partial.FoldFile(result, mode)
	return partial
}

func (it *ScanCommand) writeReports(tally *entities.Tally, settings *entities.Settings) ([]string, error) {
	renderer := entities.NewReportRenderer(settings.ManifestName)
	outputs := []struct {
		filename string
		content  string
	}{
		{settings.Reports.Unique, renderer.UniquePackages(tally)},
		{settings.Reports.Frequency, renderer.PackagesByFrequency(tally)},
		{settings.Reports.UniqueWithVersions, renderer.UniquePackagesWithVersions(tally)},
		{settings.Reports.FrequencyWithVersions, renderer.PackagesByFrequencyWithVersions(tally)},
	}

	written := make([]string, 0, len(outputs))
	for _, output := range outputs {
		path := settings.ReportPath(output.filename)
		if err := it.reports.Save(path, output.content); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func logSummary(tally *entities.Tally, written []string) {
	logger.Infof("[scan] Analysis complete")
	logger.Infof("[scan] Manifests scanned: %d", tally.FilesScanned)
	logger.Infof("[scan] Declarations counted: %d (%d other lines ignored)", tally.Entries, tally.IgnoredLines)
	logger.Infof("[scan] Unique packages: %d", len(tally.Names))
	logger.Infof("[scan] Unique package+version combinations: %d", len(tally.Specs))
	if tally.SkippedLines > 0 {
		logger.Warnf("[scan] Skipped %d malformed line(s)", tally.SkippedLines)
	}
	if tally.InaccessiblePaths > 0 {
		logger.Warnf("[scan] Could not read %d path(s)", tally.InaccessiblePaths)
	}
	for _, path := range written {
		logger.Infof("[scan] Wrote %s", path)
	}
}
