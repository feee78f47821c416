package entities

// DependencyFile is a manifest discovered by the walker.
type DependencyFile struct {
	ID   int    // Discovery ordinal, unique within one walk
	Path string // Absolute path of the manifest
}

// ParsedEntry is a single package declaration taken from a manifest.
type ParsedEntry struct {
	CanonicalName string // Normalized name used as the counting key
	RawName       string // Name exactly as written in the manifest
	Specifier     string // Verbatim version constraint, empty when none given
	SourceFile    int    // DependencyFile.ID of the manifest it came from
	Line          int    // 1-based line number in the manifest
}

// Key returns the package+version counting key of the entry.
func (e ParsedEntry) Key() PackageSpecKey {
	return PackageSpecKey{Name: e.CanonicalName, Specifier: e.Specifier}
}

// PackageSpecKey identifies a (canonical name, specifier) combination.
type PackageSpecKey struct {
	Name      string
	Specifier string
}

// String renders the key as it appears in requirement files, e.g. "requests>=2.25.0".
func (k PackageSpecKey) String() string {
	return k.Name + k.Specifier
}
