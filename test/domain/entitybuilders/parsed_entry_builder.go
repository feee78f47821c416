//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/reqscan/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

const (
	defaultEntryName = "requests"
	defaultEntryFile = 1
	defaultEntryLine = 1
)

// ParsedEntryBuilder helps create parsed entries with a fluent interface.
type ParsedEntryBuilder struct {
	*testkit.BaseBuilder
	name       string
	rawName    string
	specifier  string
	sourceFile int
	line       int
}

// NewParsedEntryBuilder creates a new entry builder with sensible defaults.
func NewParsedEntryBuilder() *ParsedEntryBuilder {
	return &ParsedEntryBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        defaultEntryName,
		sourceFile:  defaultEntryFile,
		line:        defaultEntryLine,
	}
}

// WithName sets the canonical name. The raw name follows unless set explicitly.
func (b *ParsedEntryBuilder) WithName(name string) *ParsedEntryBuilder {
	b.name = name
	return b
}

// WithRawName sets the name as written in the manifest.
func (b *ParsedEntryBuilder) WithRawName(rawName string) *ParsedEntryBuilder {
	b.rawName = rawName
	return b
}

// WithSpecifier sets the version specifier.
func (b *ParsedEntryBuilder) WithSpecifier(specifier string) *ParsedEntryBuilder {
	b.specifier = specifier
	return b
}

// WithSourceFile sets the id of the manifest the entry came from.
func (b *ParsedEntryBuilder) WithSourceFile(id int) *ParsedEntryBuilder {
	b.sourceFile = id
	return b
}

// WithLine sets the line number.
func (b *ParsedEntryBuilder) WithLine(line int) *ParsedEntryBuilder {
	b.line = line
	return b
}

// Build creates the entry (satisfies testkit.Builder interface).
func (b *ParsedEntryBuilder) Build() interface{} {
	return b.BuildEntry()
}

// BuildEntry creates the entry with a concrete return type.
func (b *ParsedEntryBuilder) BuildEntry() entities.ParsedEntry {
	rawName := b.rawName
	if rawName == "" {
		rawName = b.name
	}
	return entities.ParsedEntry{
		CanonicalName: b.name,
		RawName:       rawName,
		Specifier:     b.specifier,
		SourceFile:    b.sourceFile,
		Line:          b.line,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ParsedEntryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = defaultEntryName
	b.rawName = ""
	b.specifier = ""
	b.sourceFile = defaultEntryFile
	b.line = defaultEntryLine
	return b
}

// Clone creates a deep copy of the ParsedEntryBuilder.
func (b *ParsedEntryBuilder) Clone() testkit.Builder {
	return &ParsedEntryBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		rawName:     b.rawName,
		specifier:   b.specifier,
		sourceFile:  b.sourceFile,
		line:        b.line,
	}
}
