package filesystem

import (
	"context"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

// ManifestRepository implements repositories.ManifestRepository on the local
// filesystem. Exclusion patterns use gitignore semantics, so a bare name such
// as "venv" matches at any depth and "*.egg-info" matches by suffix.
type ManifestRepository struct{}

// NewManifestRepository creates a new filesystem manifest walker.
func NewManifestRepository() repositories.ManifestRepository {
	return &ManifestRepository{}
}

// Walk traverses opts.Root depth-first and yields every file named exactly
// opts.ManifestName. Errors on a subtree are yielded as *entities.WalkError and
// the subtree is skipped; a context cancellation is yielded as-is and ends the walk.
func (r *ManifestRepository) Walk(
	ctx context.Context,
	opts entities.WalkOptions,
) iter.Seq2[entities.DependencyFile, error] {
	return func(yield func(entities.DependencyFile, error) bool) {
		root, err := filepath.Abs(opts.Root)
		if err != nil {
			yield(entities.DependencyFile{}, &entities.WalkError{Path: opts.Root, Root: true, Err: err})
			return
		}

		matcher := newExcludeMatcher(opts.Excludes)
		nextID := 0
		stopped := false

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if err != nil {
				logger.Debugf("[walker] Cannot read %s: %v", path, err)
				if !yield(entities.DependencyFile{}, &entities.WalkError{Path: path, Root: path == root, Err: err}) {
					stopped = true
					return filepath.SkipAll
				}
				if entry != nil && entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if entry.IsDir() {
				if path != root && matcher.Match(relativeParts(root, path), true) {
					logger.Debugf("[walker] Skipping excluded directory %s", path)
					return filepath.SkipDir
				}
				return nil
			}

			if entry.Name() != opts.ManifestName {
				return nil
			}

			nextID++
			if !yield(entities.DependencyFile{ID: nextID, Path: path}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if walkErr != nil && !stopped {
			yield(entities.DependencyFile{}, walkErr)
		}
	}
}

// Open opens a discovered manifest for reading.
func (r *ManifestRepository) Open(file entities.DependencyFile) (io.ReadCloser, error) {
	handle, err := os.Open(file.Path)
	if err != nil {
		return nil, &entities.WalkError{Path: file.Path, Err: err}
	}
	return handle, nil
}

func newExcludeMatcher(excludes []string) gitignore.Matcher {
	patterns := make([]gitignore.Pattern, 0, len(excludes))
	for _, exclude := range excludes {
		exclude = strings.TrimSpace(exclude)
		if exclude == "" {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(exclude, nil))
	}
	return gitignore.NewMatcher(patterns)
}

// relativeParts splits path relative to root into slash-separated components
// for the gitignore matcher.
func relativeParts(root, path string) []string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return strings.Split(filepath.ToSlash(rel), "/")
}
