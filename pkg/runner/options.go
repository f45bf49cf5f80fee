// Package runner compiles many files concurrently and aggregates the
// results.
package runner

import (
	"slices"

	"github.com/yaklabco/duic/pkg/config"
)

// Options controls file discovery and the worker pool of a run.
type Options struct {
	Paths      []string // files or directories; "." when empty
	WorkingDir string   // resolves relative Paths; the process cwd when empty

	// Extensions selects files found while walking directories, compared
	// case-insensitively. DefaultExtensions applies when empty.
	Extensions []string

	// AnyExtensionWhenExplicit accepts files named directly in Paths
	// whatever their extension, leaving classification to content.
	AnyExtensionWhenExplicit bool

	// IncludeGlobs, when set, restricts results to matching paths.
	// ExcludeGlobs skips files and whole directories. Both are matched
	// against slash-separated paths relative to WorkingDir.
	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// Jobs caps concurrent workers; 0 or less means one per CPU.
	Jobs int
}

// DefaultExtensions returns the default markup then header extensions.
func DefaultExtensions() []string {
	return slices.Concat(config.DefaultMarkupExtensions(), config.DefaultPreprocessorExtensions())
}

// OptionsFromConfig derives run options for paths from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg != nil {
		opts.Extensions = slices.Concat(cfg.MarkupExtensions, cfg.PreprocessorExtensions)
		opts.AnyExtensionWhenExplicit = cfg.LanguageDetection()
		opts.ExcludeGlobs = cfg.Ignore
		opts.Jobs = cfg.Jobs
	}
	return opts
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
