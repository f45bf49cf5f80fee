package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/duic/pkg/config"
)

// merge layers override onto a copy of base. Unset fields in override
// leave base alone: empty strings, zero numbers, nil slices, and a nil
// DetectLanguage. Boolean switches can only be turned on by a layer.
// Defines merge key by key; every other slice is replaced whole.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	out := base.Clone()
	if override == nil {
		return out
	}

	setString(&out.Format, override.Format)
	setString(&out.Output, override.Output)
	if override.Jobs != 0 {
		out.Jobs = override.Jobs
	}
	out.Strict = out.Strict || override.Strict
	out.ValidateTrees = out.ValidateTrees || override.ValidateTrees
	if override.DetectLanguage != nil {
		v := *override.DetectLanguage
		out.DetectLanguage = &v
	}

	if override.Defines != nil {
		if out.Defines == nil {
			out.Defines = make(map[string]string, len(override.Defines))
		}
		maps.Copy(out.Defines, override.Defines)
	}

	setSlice(&out.MarkupExtensions, override.MarkupExtensions)
	setSlice(&out.PreprocessorExtensions, override.PreprocessorExtensions)
	setSlice(&out.IncludeDirs, override.IncludeDirs)
	setSlice(&out.Ignore, override.Ignore)

	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setSlice(dst *[]string, v []string) {
	if v != nil {
		*dst = slices.Clone(v)
	}
}

// MergeAll folds configs left to right; later layers win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}
