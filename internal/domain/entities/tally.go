package entities

import (
	"fmt"
	"sort"
)

// CountMode selects how repeated declarations are counted.
type CountMode string

const (
	// CountOccurrences counts every declaration line.
	CountOccurrences CountMode = "occurrences"
	// CountFiles counts a name (or name+specifier) at most once per manifest.
	CountFiles CountMode = "files"
)

// ParseCountMode validates a count mode string; empty selects CountOccurrences.
func ParseCountMode(raw string) (CountMode, error) {
	switch CountMode(raw) {
	case "", CountOccurrences:
		return CountOccurrences, nil
	case CountFiles:
		return CountFiles, nil
	default:
		return "", fmt.Errorf("unknown count mode %q (use %q or %q)", raw, CountOccurrences, CountFiles)
	}
}

// NameStats is the per-name record of a FrequencyTally.
type NameStats struct {
	Count      int
	Specifiers map[string]struct{}
}

// SortedSpecifiers returns the distinct non-empty specifiers in ascending order.
func (s *NameStats) SortedSpecifiers() []string {
	specs := make([]string, 0, len(s.Specifiers))
	for spec := range s.Specifiers {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	return specs
}

// FrequencyTally maps a canonical name to its count and observed specifiers.
type FrequencyTally map[string]*NameStats

// SpecFrequencyTally maps a name+specifier combination to its count.
type SpecFrequencyTally map[PackageSpecKey]int

// Tally accumulates the results of one scan.
type Tally struct {
	Names FrequencyTally
	Specs SpecFrequencyTally

	FilesScanned      int // manifests that were read and parsed
	Entries           int // entries folded in
	IgnoredLines      int // lines that are not declarations
	SkippedLines      int // malformed lines and invalid names
	InaccessiblePaths int // directories or files that could not be read
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{
		Names: make(FrequencyTally),
		Specs: make(SpecFrequencyTally),
	}
}

// Fold adds a single entry: the name count, the name's specifier set and the
// composite count are all updated in one step.
func (t *Tally) Fold(entry ParsedEntry) {
	t.countName(entry)
	t.Specs[entry.Key()]++
	t.Entries++
}

// FoldFile adds the result of one parsed manifest. With CountFiles each name
// and each name+specifier combination contributes at most once per file;
// specifiers are still collected from every line.
func (t *Tally) FoldFile(result *FileParseResult, mode CountMode) {
	t.FilesScanned++
	t.IgnoredLines += result.Ignored
	t.SkippedLines += len(result.Issues)

	if mode != CountFiles {
		for _, entry := range result.Entries {
			t.Fold(entry)
		}
		return
	}

	seenNames := make(map[string]struct{})
	seenKeys := make(map[PackageSpecKey]struct{})
	for _, entry := range result.Entries {
		t.Entries++
		if _, seen := seenNames[entry.CanonicalName]; seen {
			t.addSpecifier(entry)
		} else {
			seenNames[entry.CanonicalName] = struct{}{}
			t.countName(entry)
		}
		if _, seen := seenKeys[entry.Key()]; !seen {
			seenKeys[entry.Key()] = struct{}{}
			t.Specs[entry.Key()]++
		}
	}
}

// Merge adds every count of other into t. Count addition and set union are
// commutative, so partial tallies may be merged in any order.
func (t *Tally) Merge(other *Tally) {
	for name, stats := range other.Names {
		mine := t.stats(name)
		mine.Count += stats.Count
		for spec := range stats.Specifiers {
			mine.Specifiers[spec] = struct{}{}
		}
	}
	for key, count := range other.Specs {
		t.Specs[key] += count
	}

	t.FilesScanned += other.FilesScanned
	t.Entries += other.Entries
	t.IgnoredLines += other.IgnoredLines
	t.SkippedLines += other.SkippedLines
	t.InaccessiblePaths += other.InaccessiblePaths
}

// NameTotal sums the per-name counts.
func (t *Tally) NameTotal() int {
	total := 0
	for _, stats := range t.Names {
		total += stats.Count
	}
	return total
}

// SpecTotal sums the per-combination counts.
func (t *Tally) SpecTotal() int {
	total := 0
	for _, count := range t.Specs {
		total += count
	}
	return total
}

func (t *Tally) countName(entry ParsedEntry) {
	t.stats(entry.CanonicalName).Count++
	t.addSpecifier(entry)
}

func (t *Tally) addSpecifier(entry ParsedEntry) {
	if entry.Specifier == "" {
		return
	}
	t.stats(entry.CanonicalName).Specifiers[entry.Specifier] = struct{}{}
}

func (t *Tally) stats(name string) *NameStats {
	stats, ok := t.Names[name]
	if !ok {
		stats = &NameStats{Specifiers: make(map[string]struct{})}
		t.Names[name] = stats
	}
	return stats
}

// Fold folds a flat sequence of entries into a new tally.
func Fold(entries []ParsedEntry) *Tally {
	tally := NewTally()
	for _, entry := range entries {
		tally.Fold(entry)
	}
	return tally
}
