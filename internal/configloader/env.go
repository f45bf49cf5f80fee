package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/preprocessor"
)

const envVarPrefix = "DUIC_"

// EnvVar describes one DUIC_* override.
type EnvVar struct {
	Name  string // full variable name
	Field string // YAML key it overrides
	Doc   string
	set   func(cfg *config.Config, raw string) error
}

// envVars is ordered as shown in help.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []EnvVar{
	{Name: "DUIC_FORMAT", Field: "format", Doc: "output format: text, json, or sarif",
		set: func(cfg *config.Config, raw string) error { cfg.Format = raw; return nil }},
	{Name: "DUIC_JOBS", Field: "jobs", Doc: "parallel workers, 0 for one per CPU",
		set: intSetter(func(cfg *config.Config, v int) { cfg.Jobs = v })},
	{Name: "DUIC_STRICT", Field: "strict", Doc: "treat warnings as failures",
		set: boolSetter(func(cfg *config.Config, v bool) { cfg.Strict = v })},
	{Name: "DUIC_DETECT_LANGUAGE", Field: "detect_language", Doc: "classify unknown extensions by content",
		set: boolSetter(func(cfg *config.Config, v bool) { cfg.DetectLanguage = &v })},
	{Name: "DUIC_VALIDATE_TREES", Field: "validate_trees", Doc: "check parse tree structure",
		set: boolSetter(func(cfg *config.Config, v bool) { cfg.ValidateTrees = v })},
	{Name: "DUIC_DEFINES", Field: "defines", Doc: "comma-separated NAME[=VALUE] macros",
		set: setDefines},
	{Name: "DUIC_INCLUDE_DIRS", Field: "include_dirs", Doc: "comma-separated include directories",
		set: listSetter(func(cfg *config.Config, v []string) { cfg.IncludeDirs = v })},
	{Name: "DUIC_IGNORE", Field: "ignore", Doc: "comma-separated ignore globs",
		set: listSetter(func(cfg *config.Config, v []string) { cfg.Ignore = v })},
	{Name: "DUIC_MARKUP_EXTENSIONS", Field: "markup_extensions", Doc: "comma-separated markup extensions",
		set: listSetter(func(cfg *config.Config, v []string) { cfg.MarkupExtensions = v })},
	{Name: "DUIC_PREPROCESSOR_EXTENSIONS", Field: "preprocessor_extensions", Doc: "comma-separated header extensions",
		set: listSetter(func(cfg *config.Config, v []string) { cfg.PreprocessorExtensions = v })},
}

// LoadFromEnv applies every non-empty DUIC_* variable to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		raw := os.Getenv(v.Name)
		if raw == "" {
			continue
		}
		if err := v.set(cfg, raw); err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	return nil
}

// EnvVars lists the supported variables in display order.
func EnvVars() []EnvVar {
	out := make([]EnvVar, len(envVars))
	copy(out, envVars)
	return out
}

// GetEnvVarName returns the variable overriding the YAML key field, or "".
func GetEnvVarName(field string) string {
	for _, v := range envVars {
		if v.Field == field {
			return v.Name
		}
	}
	return ""
}

// ListEnvVars maps each variable name to its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for _, v := range envVars {
		out[v.Name] = v.Doc
	}
	return out
}

func intSetter(apply func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		apply(cfg, n)
		return nil
	}
}

func boolSetter(apply func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", raw)
		}
		apply(cfg, b)
		return nil
	}
}

func listSetter(apply func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		apply(cfg, splitList(raw))
		return nil
	}
}

func setDefines(cfg *config.Config, raw string) error {
	items := splitList(raw)
	if cfg.Defines == nil {
		cfg.Defines = make(map[string]string, len(items))
	}
	for _, item := range items {
		name, value, err := preprocessor.ParseDefineFlag(item)
		if err != nil {
			return fmt.Errorf("invalid define: %w", err)
		}
		cfg.Defines[name] = value
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
