//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"strings"
	"sync"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/internal/domain/repositories"
)

// SpyManifestRepository implements repositories.ManifestRepository over an
// in-memory set of files. Open may be called concurrently.
type SpyManifestRepository struct {
	// --- Walk ---
	Files    []entities.DependencyFile
	WalkErrs []error // yielded after all files

	// --- Open ---
	Contents map[string]string // keyed by path
	OpenErrs map[string]error  // keyed by path

	mu              sync.Mutex
	WalkCallCount   int
	LastWalkOptions entities.WalkOptions
	OpenedPaths     []string
}

var _ repositories.ManifestRepository = (*SpyManifestRepository)(nil)

// AddFile registers a manifest with the next free ID and returns it.
func (s *SpyManifestRepository) AddFile(path, content string) entities.DependencyFile {
	if s.Contents == nil {
		s.Contents = make(map[string]string)
	}
	file := entities.DependencyFile{ID: len(s.Files) + 1, Path: path}
	s.Files = append(s.Files, file)
	s.Contents[path] = content
	return file
}

func (s *SpyManifestRepository) Walk(
	_ context.Context,
	opts entities.WalkOptions,
) iter.Seq2[entities.DependencyFile, error] {
	s.mu.Lock()
	s.WalkCallCount++
	s.LastWalkOptions = opts
	s.mu.Unlock()

	return func(yield func(entities.DependencyFile, error) bool) {
		for _, file := range s.Files {
			if !yield(file, nil) {
				return
			}
		}
		for _, err := range s.WalkErrs {
			if !yield(entities.DependencyFile{}, err) {
				return
			}
		}
	}
}

func (s *SpyManifestRepository) Open(file entities.DependencyFile) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.OpenedPaths = append(s.OpenedPaths, file.Path)
	if err, ok := s.OpenErrs[file.Path]; ok {
		return nil, &entities.WalkError{Path: file.Path, Err: err}
	}
	content, ok := s.Contents[file.Path]
	if !ok {
		return nil, &entities.WalkError{Path: file.Path, Err: fs.ErrNotExist}
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

// ErrPermission is a convenience error for inaccessible paths.
var ErrPermission = errors.New("permission denied") //nolint:gochecknoglobals // shared test error
