package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultManifestName          = "requirements.txt"
	DefaultOutputDir             = "./analysis"
	DefaultRecommendationTimeout = 120 * time.Second

	DefaultUniqueReport                = "unique_packages.txt"
	DefaultFrequencyReport             = "packages_by_frequency.txt"
	DefaultUniqueWithVersionsReport    = "unique_packages_with_versions.txt"
	DefaultFrequencyWithVersionsReport = "packages_by_frequency_with_versions.txt"
	DefaultRecommendationReport        = "ai_recommendations.txt"

	// RootEnvVar supplies the scan root when neither a flag nor the config file sets one.
	RootEnvVar = "REPO_BASE"
)

// DefaultExcludedDirs lists the directories never descended into, in
// gitignore pattern syntax: VCS metadata, bytecode and tool caches, installed
// environments and build output.
//
//nolint:gochecknoglobals // fixed denylist
var DefaultExcludedDirs = []string{
	".git", ".hg", ".svn",
	"__pycache__", ".mypy_cache", ".pytest_cache", ".ruff_cache",
	".tox", ".nox",
	"node_modules",
	".venv", "venv", "env", "site-packages",
	".eggs", "*.egg-info", "build", "dist",
}

// Settings is the configuration of a single reqscan run. It is built once by
// the controllers and passed down explicitly.
type Settings struct {
	Root           string                 `yaml:"root"`
	OutputDir      string                 `yaml:"output_dir"`
	ManifestName   string                 `yaml:"manifest_name"`
	Exclude        []string               `yaml:"exclude"`    // extra patterns appended to DefaultExcludedDirs
	CountMode      CountMode              `yaml:"count_mode"` // "occurrences" or "files"
	Workers        int                    `yaml:"workers"`    // 0 selects runtime.NumCPU()
	Reports        ReportFiles            `yaml:"reports"`
	Recommendation RecommendationSettings `yaml:"recommendation"`
}

// ReportFiles holds the filenames of the generated reports.
type ReportFiles struct {
	Unique                string `yaml:"unique"`
	Frequency             string `yaml:"frequency"`
	UniqueWithVersions    string `yaml:"unique_with_versions"`
	FrequencyWithVersions string `yaml:"frequency_with_versions"`
	Recommendation        string `yaml:"recommendation"`
}

// RecommendationSettings configures the optional AI recommendation step.
type RecommendationSettings struct {
	Enabled  bool          `yaml:"enabled"`
	Provider string        `yaml:"provider"` // "anthropic", "openai" or "ollama"
	Token    string        `yaml:"token"`    // Inline, ${ENV_VAR}, or file path
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// WalkOptions tells a ManifestRepository what to look for and what to skip.
type WalkOptions struct {
	Root         string
	ManifestName string
	Excludes     []string
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads a YAML configuration file, resolves tokens and fills the
// remaining fields with defaults.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".reqscan.yaml",
		".reqscan.yml",
		"reqscan.yaml",
		"reqscan.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ApplyDefaults fills every empty field, first from the environment and then
// from the built-in defaults. Values already set are left untouched.
func (s *Settings) ApplyDefaults() {
	if s.Root == "" {
		s.Root = os.Getenv(RootEnvVar)
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.ManifestName == "" {
		s.ManifestName = DefaultManifestName
	}
	if s.CountMode == "" {
		s.CountMode = CountOccurrences
	}

	setDefault(&s.Reports.Unique, DefaultUniqueReport)
	setDefault(&s.Reports.Frequency, DefaultFrequencyReport)
	setDefault(&s.Reports.UniqueWithVersions, DefaultUniqueWithVersionsReport)
	setDefault(&s.Reports.FrequencyWithVersions, DefaultFrequencyWithVersionsReport)
	setDefault(&s.Reports.Recommendation, DefaultRecommendationReport)

	rec := &s.Recommendation
	rec.Provider = strings.ToLower(rec.Provider)
	setDefault(&rec.Provider, ProviderAnthropic)
	rec.Token = ResolveToken(rec.Token, rec.Provider)
	if rec.Timeout <= 0 {
		rec.Timeout = DefaultRecommendationTimeout
	}
}

// Validate checks the values shared by every command.
func (s *Settings) Validate() error {
	if _, err := ParseCountMode(string(s.CountMode)); err != nil {
		return err
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	if s.ManifestName != filepath.Base(s.ManifestName) {
		return fmt.Errorf("manifest name %q must be a plain filename", s.ManifestName)
	}
	return nil
}

// ValidateScan additionally requires a scan root.
func (s *Settings) ValidateScan() error {
	if s.Root == "" {
		return fmt.Errorf(
			"no repository base path provided: pass a path or set %s", RootEnvVar,
		)
	}
	return s.Validate()
}

// WalkOptions builds the walker options from the settings, appending the
// user-supplied excludes to the fixed denylist.
func (s *Settings) WalkOptions() WalkOptions {
	excludes := make([]string, 0, len(DefaultExcludedDirs)+len(s.Exclude))
	excludes = append(excludes, DefaultExcludedDirs...)
	excludes = append(excludes, s.Exclude...)
	return WalkOptions{
		Root:         ExpandPath(s.Root),
		ManifestName: s.ManifestName,
		Excludes:     excludes,
	}
}

// ReportPath joins the output directory with a report filename.
func (s *Settings) ReportPath(filename string) string {
	return filepath.Join(ExpandPath(s.OutputDir), filename)
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
// An empty result falls back to the provider's own API key variable.
func ResolveToken(raw, provider string) string {
	if raw == "" {
		return providerToken(provider)
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
	if resolved == "" {
		return providerToken(provider)
	}

	if info, statErr := os.Stat(resolved); statErr == nil && !info.IsDir() {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// SelectProvider switches the recommendation provider. Switching to a
// different provider drops the token, model and endpoint set for the old one.
func (r *RecommendationSettings) SelectProvider(provider string) {
	provider = strings.ToLower(provider)
	current := strings.ToLower(r.Provider)
	if current == "" {
		current = ProviderAnthropic
	}
	if provider != current {
		logger.Debugf("Switching AI provider from %s to %s", current, provider)
		r.Token = ""
		r.Model = ""
		r.Endpoint = ""
	}
	r.Provider = provider
}

func providerToken(provider string) string {
	if envVar := TokenEnvVar(provider); envVar != "" {
		return os.Getenv(envVar)
	}
	return ""
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
