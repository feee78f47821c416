package entities

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalSeparator replaces every run of '-', '_' and '.' in a package name.
const CanonicalSeparator = "-"

var separatorRun = regexp.MustCompile(`[-_.]+`)

// NormalizeName returns the canonical form of a raw package name: trimmed,
// lower-cased and with separator runs unified. PyPI treats "Scikit_Learn",
// "scikit.learn" and "scikit-learn" as the same project.
func NormalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &InvalidNameError{Raw: raw}
	}

	// a Caser is stateful, so one is built per call to stay goroutine-safe
	lowered := cases.Lower(language.Und).String(trimmed)
	return separatorRun.ReplaceAllString(lowered, CanonicalSeparator), nil
}
