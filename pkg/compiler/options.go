package compiler

import (
	"fmt"
	"strings"

	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/preprocessor"
)

// Options controls how the Engine classifies and compiles files.
type Options struct {
	// MarkupExtensions are compiled as markup files.
	MarkupExtensions []string

	// PreprocessorExtensions are compiled as preprocessor files.
	PreprocessorExtensions []string

	// DetectLanguage classifies files with other extensions by content.
	// When false such files are rejected with ErrUnknownFileType.
	DetectLanguage bool

	// Defines seeds each file's macro table. Each compilation works on a
	// clone, so the seed is never modified.
	Defines *preprocessor.Defines

	// IncludeDirs are searched, in order, for #include targets.
	IncludeDirs []string

	// ValidateTrees runs parsetree.Validate over every finished tree.
	ValidateTrees bool
}

// DefaultOptions returns the options implied by config.NewConfig.
func DefaultOptions() Options {
	return Options{
		MarkupExtensions:       config.DefaultMarkupExtensions(),
		PreprocessorExtensions: config.DefaultPreprocessorExtensions(),
		DetectLanguage:         true,
		Defines:                preprocessor.NewDefines(),
	}
}

// OptionsFromConfig translates a resolved configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return DefaultOptions(), nil
	}

	for name := range cfg.Defines {
		if !preprocessor.IsIdentifier(name) {
			return Options{}, fmt.Errorf("invalid macro name %q", name)
		}
	}

	return Options{
		MarkupExtensions:       normalizeExtensions(cfg.MarkupExtensions),
		PreprocessorExtensions: normalizeExtensions(cfg.PreprocessorExtensions),
		DetectLanguage:         cfg.LanguageDetection(),
		Defines:                preprocessor.DefinesFromMap(cfg.Defines),
		IncludeDirs:            cfg.IncludeDirs,
		ValidateTrees:          cfg.ValidateTrees,
	}, nil
}

// normalizeExtensions lowercases extensions for case-insensitive matching.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, strings.ToLower(ext))
	}
	return out
}
