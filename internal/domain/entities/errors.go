package entities

import "fmt"

// InvalidNameError is returned when a package name is empty after normalization.
type InvalidNameError struct {
	Raw string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid package name %q", e.Raw)
}

// MalformedLineError is returned when no package name can be extracted from a line.
type MalformedLineError struct {
	Line string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed requirement line %q: no package name found", e.Line)
}

// WalkError reports a path that could not be traversed or read. The scan
// continues with sibling paths unless Root is set.
type WalkError struct {
	Path string
	Root bool
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("cannot read %q: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error { return e.Err }

// RecommendationUnavailableError wraps any failure of the recommendation
// provider (missing credential, transport, authentication or timeout).
type RecommendationUnavailableError struct {
	Provider string
	Err      error
}

func (e *RecommendationUnavailableError) Error() string {
	return fmt.Sprintf("recommendation from %q unavailable: %v", e.Provider, e.Err)
}

func (e *RecommendationUnavailableError) Unwrap() error { return e.Err }
