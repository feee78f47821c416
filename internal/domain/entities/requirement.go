package entities

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// LineKind classifies the outcome of parsing a single requirement line.
type LineKind int

const (
	LineEntry   LineKind = iota // a package declaration
	LineSkipped                 // not a declaration, ignored without error
	LineFailed                  // looked like a declaration but had no name
)

// SkipReason explains why a line produced no entry.
type SkipReason string

const (
	SkipBlank      SkipReason = "blank"
	SkipComment    SkipReason = "comment"
	SkipDirective  SkipReason = "directive"
	SkipMarkerOnly SkipReason = "marker-only"
	SkipReference  SkipReason = "reference"
)

// LineResult is the tagged outcome of ParseRequirementLine.
type LineResult struct {
	Kind      LineKind
	RawName   string
	Specifier string
	Skip      SkipReason
	Err       error
}

// operatorChars holds the first character of every comparison operator
// (==, ===, >=, <=, ~=, !=, >, <).
const operatorChars = "=<>!~"

// continuationMarker ends a line that pip continues on the next one, as in
// pip-compile output with "--hash" options.
const continuationMarker = "\\"

//nolint:gochecknoglobals // fixed list of reference prefixes
var referencePrefixes = []string{
	"http://", "https://", "file:", "git+", "hg+", "svn+", "bzr+",
}

// ParseRequirementLine splits one requirements.txt line into a raw package
// name and a verbatim specifier. Extras are dropped and environment markers
// are removed before the specifier is taken.
//
// Examples:
//
//	"requests>=2.25.0"                    -> requests, >=2.25.0
//	"uvicorn[standard] == 0.30 ; os_name" -> uvicorn, == 0.30
//	"requests==2.31.0 \\"                 -> requests, ==2.31.0
//	"-e ."                                -> skipped (directive)
//	"==1.0"                               -> failed (MalformedLineError)
func ParseRequirementLine(line string) LineResult {
	body := strings.TrimSpace(stripComment(line))
	body = strings.TrimSpace(strings.TrimSuffix(body, continuationMarker))
	if body == "" {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return LineResult{Kind: LineSkipped, Skip: SkipComment}
		}
		return LineResult{Kind: LineSkipped, Skip: SkipBlank}
	}

	if strings.HasPrefix(body, "-") {
		return LineResult{Kind: LineSkipped, Skip: SkipDirective}
	}

	lowered := strings.ToLower(body)
	for _, prefix := range referencePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return LineResult{Kind: LineSkipped, Skip: SkipReference}
		}
	}

	if idx := strings.IndexByte(body, ';'); idx >= 0 {
		body = strings.TrimSpace(body[:idx])
		if body == "" {
			return LineResult{Kind: LineSkipped, Skip: SkipMarkerOnly}
		}
	}

	name, rest := body, ""
	if idx := strings.IndexAny(body, operatorChars+"[@"); idx >= 0 {
		name, rest = body[:idx], body[idx:]
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return LineResult{Kind: LineFailed, Err: &MalformedLineError{Line: strings.TrimSpace(line)}}
	}

	return LineResult{Kind: LineEntry, RawName: name, Specifier: extractSpecifier(rest)}
}

// stripComment cuts the line at the first '#' that is not escaped with a backslash.
func stripComment(line string) string {
	for i := range len(line) {
		if line[i] == '#' && (i == 0 || line[i-1] != '\\') {
			return line[:i]
		}
	}
	return line
}

// extractSpecifier returns the constraint that follows the package name,
// skipping an optional extras block. Direct references ("name @ url") carry
// no version constraint.
func extractSpecifier(rest string) string {
	if strings.HasPrefix(rest, "[") {
		if end := strings.IndexByte(rest, ']'); end >= 0 {
			rest = rest[end+1:]
		} else {
			rest = rest[1:]
		}
	}

	if strings.HasPrefix(strings.TrimSpace(rest), "@") {
		return ""
	}

	idx := strings.IndexAny(rest, operatorChars)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(rest[idx:])
}

// LineIssue records a line that was dropped because of a parse or name error.
type LineIssue struct {
	Line int
	Err  error
}

// FileParseResult holds everything extracted from one manifest.
type FileParseResult struct {
	File    DependencyFile
	Entries []ParsedEntry
	Ignored int         // blank, comment, directive, marker-only and reference lines
	Issues  []LineIssue // malformed lines and invalid names
}

// ParseRequirements reads a manifest and converts every declaration into a
// ParsedEntry with a canonical name. Content that is not valid UTF-8 is
// rejected as a whole with a WalkError so the caller can skip the file.
func ParseRequirements(file DependencyFile, reader io.Reader) (*FileParseResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, &WalkError{Path: file.Path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &WalkError{Path: file.Path, Err: errors.New("content is not valid UTF-8")}
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	result := &FileParseResult{File: file}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), len(data)+1)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		parsed := ParseRequirementLine(scanner.Text())

		switch parsed.Kind {
		case LineSkipped:
			result.Ignored++
		case LineFailed:
			result.Issues = append(result.Issues, LineIssue{Line: lineNumber, Err: parsed.Err})
		case LineEntry:
			canonical, nameErr := NormalizeName(parsed.RawName)
			if nameErr != nil {
				result.Issues = append(result.Issues, LineIssue{Line: lineNumber, Err: nameErr})
				continue
			}
			result.Entries = append(result.Entries, ParsedEntry{
				CanonicalName: canonical,
				RawName:       parsed.RawName,
				Specifier:     parsed.Specifier,
				SourceFile:    file.ID,
				Line:          lineNumber,
			})
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, &WalkError{Path: file.Path, Err: fmt.Errorf("failed to scan lines: %w", scanErr)}
	}

	return result, nil
}
