// Package config defines core configuration types for duic.
// These types are pure data structures; discovery and merging live in
// internal/configloader.
package config

import "slices"

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"
)

// ValidFormats returns every supported output format.
func ValidFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatSARIF}
}

// IsValid returns true if the format is one duic can render.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(ValidFormats(), f)
}

// DefaultMarkupExtensions returns the extensions compiled as markup files.
func DefaultMarkupExtensions() []string {
	return []string{".dui", ".ui", ".uix", ".xml"}
}

// DefaultPreprocessorExtensions returns the extensions compiled as
// preprocessor (header) files.
func DefaultPreprocessorExtensions() []string {
	return []string{".h", ".hpp", ".hxx", ".c", ".cpp", ".cxx"}
}

// Config is the root configuration structure for duic.
type Config struct {
	// MarkupExtensions lists file extensions treated as markup files.
	MarkupExtensions []string `mapstructure:"markup_extensions" yaml:"markup_extensions,omitempty"`

	// PreprocessorExtensions lists file extensions treated as headers.
	PreprocessorExtensions []string `mapstructure:"preprocessor_extensions" yaml:"preprocessor_extensions,omitempty"`

	// Defines seeds the macro table of every compilation session.
	// An empty value is stored as "1".
	Defines map[string]string `mapstructure:"defines" yaml:"defines,omitempty"`

	// IncludeDirs lists directories searched for include targets.
	IncludeDirs []string `mapstructure:"include_dirs" yaml:"include_dirs,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// DetectLanguage enables content-based classification of files whose
	// extension is in neither list. Nil means enabled.
	DetectLanguage *bool `mapstructure:"detect_language" yaml:"detect_language,omitempty"`

	// ValidateTrees runs structural validation over every parse tree.
	ValidateTrees bool `mapstructure:"validate_trees" yaml:"validate_trees,omitempty"`

	// CLI-only fields (not persisted to config files)

	// Format specifies the output format for diagnostics.
	Format string `yaml:"-"`

	// Jobs is the number of parallel workers (0 = auto).
	Jobs int `yaml:"-"`

	// Output is the report destination; empty means stdout.
	Output string `yaml:"-"`

	// Strict makes warnings fail the run.
	Strict bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	detect := true
	return &Config{
		MarkupExtensions:       DefaultMarkupExtensions(),
		PreprocessorExtensions: DefaultPreprocessorExtensions(),
		Defines:                make(map[string]string),
		Ignore:                 []string{".git/**", "vendor/**", "node_modules/**"},
		DetectLanguage:         &detect,
		Format:                 string(FormatText),
	}
}

// LanguageDetection reports whether content-based classification is on.
func (c *Config) LanguageDetection() bool {
	if c == nil || c.DetectLanguage == nil {
		return true
	}
	return *c.DetectLanguage
}

// OutputFormat returns the configured format, defaulting to text.
func (c *Config) OutputFormat() OutputFormat {
	if c == nil || c.Format == "" {
		return FormatText
	}
	return OutputFormat(c.Format)
}
