package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/preprocessor"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "defines.1BAD").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	if cfg == nil {
		return &ValidationResult{}
	}

	result := &ValidationResult{}

	if cfg.Format != "" && !IsValidFormat(config.OutputFormat(cfg.Format)) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, sarif", cfg.Format),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	validateExtensions(cfg, result)
	validateDefines(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateExtensions checks both extension lists for shape and overlap.
func validateExtensions(cfg *config.Config, result *ValidationResult) {
	seen := make(map[string]string)

	check := func(field string, exts []string) {
		for i, ext := range exts {
			name := fmt.Sprintf("%s[%d]", field, i)
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				result.Errors = append(result.Errors, ValidationError{
					Field:   name,
					Value:   ext,
					Message: fmt.Sprintf("extension %q must start with a dot", ext),
				})
				continue
			}

			key := strings.ToLower(ext)
			if other, ok := seen[key]; ok && other != field {
				result.Errors = append(result.Errors, ValidationError{
					Field:   name,
					Value:   ext,
					Message: fmt.Sprintf("extension %q is also listed in %s", ext, other),
				})
				continue
			}
			seen[key] = field
		}
	}

	check("markup_extensions", cfg.MarkupExtensions)
	check("preprocessor_extensions", cfg.PreprocessorExtensions)

	if len(cfg.MarkupExtensions) == 0 && len(cfg.PreprocessorExtensions) == 0 && !cfg.LanguageDetection() {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "markup_extensions",
			Message: "no extensions configured and language detection is off; no files will be compiled",
		})
	}
}

// validateDefines checks that every predefined macro has a legal name.
func validateDefines(cfg *config.Config, result *ValidationResult) {
	for name, value := range cfg.Defines {
		if !preprocessor.IsIdentifier(name) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "defines." + name,
				Value:   name,
				Message: fmt.Sprintf("invalid macro name %q", name),
			})
			continue
		}
		if strings.ContainsAny(value, "\r\n") {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "defines." + name,
				Value:   value,
				Message: "macro value contains a line break; only the first line is meaningful",
			})
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(filepath.ToSlash(pattern), '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return f.IsValid()
}
