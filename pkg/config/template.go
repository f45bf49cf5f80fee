package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every setting, including ones left at their default.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// Defines pre-populates the defines section.
	Defines map[string]string
}

type templateField struct {
	key     string
	doc     string
	value   []string
	minimal bool
}

// templateFields returns the documented settings in file order.
func templateFields(opts TemplateOptions) []templateField {
	defines := []string{"  # NAME: value"}
	if len(opts.Defines) > 0 {
		defines = defines[:0]
		names := make([]string, 0, len(opts.Defines))
		for name := range opts.Defines {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			defines = append(defines, fmt.Sprintf("  %s: %q", name, opts.Defines[name]))
		}
	}

	return []templateField{
		{
			key:     "markup_extensions",
			doc:     "Files with these extensions are compiled as markup; their directives are checked strictly.",
			value:   listValue(DefaultMarkupExtensions()),
			minimal: true,
		},
		{
			key:     "preprocessor_extensions",
			doc:     "Files with these extensions are compiled as headers; unsupported directives become warnings.",
			value:   listValue(DefaultPreprocessorExtensions()),
			minimal: true,
		},
		{
			key:     "defines",
			doc:     "Macros predefined for every file. Values are recorded, never expanded.",
			value:   defines,
			minimal: true,
		},
		{
			key:   "include_dirs",
			doc:   "Directories searched for #include targets.",
			value: []string{"  # - include"},
		},
		{
			key:     "ignore",
			doc:     "Glob patterns for files and directories to skip.",
			value:   listValue([]string{".git/**", "vendor/**", "node_modules/**"}),
			minimal: true,
		},
		{
			key:   "detect_language",
			doc:   "Classify files with unknown extensions by their content.",
			value: []string{"true"},
		},
		{
			key:   "validate_trees",
			doc:   "Check the structure of every parse tree after preprocessing.",
			value: []string{"false"},
		},
	}
}

func listValue(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("  - %q", item)
	}
	return out
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON(opts)
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")

	for _, field := range templateFields(opts) {
		if !opts.Full && !field.minimal {
			continue
		}

		buf.WriteString("# " + wrapComment(field.doc, commentWrapWidth) + "\n")
		if len(field.value) == 1 && !strings.HasPrefix(field.value[0], "  ") {
			fmt.Fprintf(&buf, "%s: %s\n\n", field.key, field.value[0])
			continue
		}
		fmt.Fprintf(&buf, "%s:\n", field.key)
		for _, line := range field.value {
			buf.WriteString(line + "\n")
		}
		buf.WriteByte('\n')
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n# ")
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	if len(opts.Defines) > 0 {
		cfg.Defines = opts.Defines
	}

	doc := map[string]any{
		"markup_extensions":       cfg.MarkupExtensions,
		"preprocessor_extensions": cfg.PreprocessorExtensions,
		"defines":                 cfg.Defines,
		"ignore":                  cfg.Ignore,
	}
	if opts.Full {
		doc["include_dirs"] = []string{}
		doc["detect_language"] = cfg.LanguageDetection()
		doc["validate_trees"] = cfg.ValidateTrees
	}

	jsonBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# duic configuration
# See: https://github.com/yaklabco/duic`
}
