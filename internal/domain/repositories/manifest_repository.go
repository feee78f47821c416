package repositories

import (
	"context"
	"io"
	"iter"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
)

// ManifestRepository discovers dependency manifests under a root directory.
type ManifestRepository interface {
	// Walk lazily yields every manifest below opts.Root. Inaccessible subtrees
	// are yielded as *entities.WalkError values and the walk carries on with
	// their siblings. Each call starts a fresh traversal.
	Walk(ctx context.Context, opts entities.WalkOptions) iter.Seq2[entities.DependencyFile, error]

	// Open returns a reader over the content of a discovered manifest.
	Open(file entities.DependencyFile) (io.ReadCloser, error)
}
