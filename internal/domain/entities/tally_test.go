//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/reqscan/internal/domain/entities"
	"github.com/rios0rios0/reqscan/test/domain/entitybuilders"
)

func TestParseCountMode(t *testing.T) {
	t.Parallel()

	t.Run("should default to occurrences", func(t *testing.T) {
		t.Parallel()

		// when
		mode, err := entities.ParseCountMode("")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.CountOccurrences, mode)
	})

	t.Run("should accept files", func(t *testing.T) {
		t.Parallel()

		// when
		mode, err := entities.ParseCountMode("files")

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.CountFiles, mode)
	})

	t.Run("should reject unknown modes", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.ParseCountMode("projects")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "projects")
	})
}

func TestTallyFold(t *testing.T) {
	t.Parallel()

	t.Run("should count every occurrence and collect distinct specifiers", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewParsedEntryBuilder().WithName("requests")
		entries := []entities.ParsedEntry{
			builder.WithSpecifier(">=2.25.0").BuildEntry(),
			builder.WithSpecifier(">=2.25.0").WithSourceFile(2).BuildEntry(),
			builder.WithSpecifier("==2.31.0").WithSourceFile(3).BuildEntry(),
			builder.WithSpecifier("").WithSourceFile(4).BuildEntry(),
		}

		// when
		tally := entities.Fold(entries)

		// then
		require.Contains(t, tally.Names, "requests")
		stats := tally.Names["requests"]
		assert.Equal(t, 4, stats.Count)
		assert.Equal(t, []string{"==2.31.0", ">=2.25.0"}, stats.SortedSpecifiers())
		assert.Equal(t, 2, tally.Specs[entities.PackageSpecKey{Name: "requests", Specifier: ">=2.25.0"}])
		assert.Equal(t, 1, tally.Specs[entities.PackageSpecKey{Name: "requests", Specifier: "==2.31.0"}])
		assert.Equal(t, 1, tally.Specs[entities.PackageSpecKey{Name: "requests", Specifier: ""}])
	})

	t.Run("should keep name, key and entry totals equal", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewParsedEntryBuilder()
		entries := []entities.ParsedEntry{
			builder.WithName("numpy").WithSpecifier("==1.20.0").BuildEntry(),
			builder.WithName("numpy").WithSpecifier("==1.24.0").BuildEntry(),
			builder.WithName("pandas").WithSpecifier("").BuildEntry(),
			builder.WithName("pandas").WithSpecifier("").BuildEntry(),
			builder.WithName("scipy").WithSpecifier(">=1.9").BuildEntry(),
		}

		// when
		tally := entities.Fold(entries)

		// then
		assert.Equal(t, len(entries), tally.Entries)
		assert.Equal(t, len(entries), tally.NameTotal())
		assert.Equal(t, len(entries), tally.SpecTotal())
	})

	t.Run("should return empty tally for no entries", func(t *testing.T) {
		t.Parallel()

		// when
		tally := entities.Fold(nil)

		// then
		assert.Empty(t, tally.Names)
		assert.Empty(t, tally.Specs)
		assert.Zero(t, tally.NameTotal())
	})
}

func TestTallyFoldFile(t *testing.T) {
	t.Parallel()

	newResult := func() *entities.FileParseResult {
		builder := entitybuilders.NewParsedEntryBuilder().WithName("django")
		return &entities.FileParseResult{
			File: entities.DependencyFile{ID: 1, Path: "/repo/requirements.txt"},
			Entries: []entities.ParsedEntry{
				builder.WithSpecifier(">=4.0").WithLine(1).BuildEntry(),
				builder.WithSpecifier(">=4.0").WithLine(2).BuildEntry(),
				builder.WithSpecifier("<5").WithLine(3).BuildEntry(),
			},
			Ignored: 2,
			Issues:  []entities.LineIssue{{Line: 4, Err: &entities.MalformedLineError{Line: "==1"}}},
		}
	}

	t.Run("should count each line in occurrences mode", func(t *testing.T) {
		t.Parallel()

		// given
		tally := entities.NewTally()

		// when
		tally.FoldFile(newResult(), entities.CountOccurrences)

		// then
		assert.Equal(t, 3, tally.Names["django"].Count)
		assert.Equal(t, 2, tally.Specs[entities.PackageSpecKey{Name: "django", Specifier: ">=4.0"}])
		assert.Equal(t, 1, tally.FilesScanned)
		assert.Equal(t, 3, tally.Entries)
		assert.Equal(t, 2, tally.IgnoredLines)
		assert.Equal(t, 1, tally.SkippedLines)
	})

	t.Run("should count each name and key once per file in files mode", func(t *testing.T) {
		t.Parallel()

		// given
		tally := entities.NewTally()

		// when
		tally.FoldFile(newResult(), entities.CountFiles)

		// then
		assert.Equal(t, 1, tally.Names["django"].Count)
		assert.Equal(t, []string{"<5", ">=4.0"}, tally.Names["django"].SortedSpecifiers())
		assert.Equal(t, 1, tally.Specs[entities.PackageSpecKey{Name: "django", Specifier: ">=4.0"}])
		assert.Equal(t, 1, tally.Specs[entities.PackageSpecKey{Name: "django", Specifier: "<5"}])
		assert.Equal(t, 3, tally.Entries)
	})
}

func TestTallyMerge(t *testing.T) {
	t.Parallel()

	t.Run("should produce the same tally regardless of merge order", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewParsedEntryBuilder()
		first := []entities.ParsedEntry{
			builder.WithName("requests").WithSpecifier(">=2.25.0").BuildEntry(),
			builder.WithName("numpy").WithSpecifier("==1.20.0").BuildEntry(),
		}
		second := []entities.ParsedEntry{
			builder.WithName("requests").WithSpecifier(">=2.25.0").BuildEntry(),
			builder.WithName("pandas").WithSpecifier("").BuildEntry(),
		}

		// when
		forward := entities.NewTally()
		forward.Merge(entities.Fold(first))
		forward.Merge(entities.Fold(second))

		backward := entities.NewTally()
		backward.Merge(entities.Fold(second))
		backward.Merge(entities.Fold(first))

		// then
		assert.Equal(t, forward, backward)
		assert.Equal(t, entities.Fold(append(first, second...)), forward)
	})

	t.Run("should add the scan counters", func(t *testing.T) {
		t.Parallel()

		// given
		tally := entities.NewTally()
		other := entities.NewTally()
		other.FilesScanned = 2
		other.IgnoredLines = 5
		other.SkippedLines = 1
		other.InaccessiblePaths = 3

		// when
		tally.Merge(other)
		tally.Merge(other)

		// then
		assert.Equal(t, 4, tally.FilesScanned)
		assert.Equal(t, 10, tally.IgnoredLines)
		assert.Equal(t, 2, tally.SkippedLines)
		assert.Equal(t, 6, tally.InaccessiblePaths)
	})
}
