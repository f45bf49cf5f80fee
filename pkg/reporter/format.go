package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format selects how diagnostics are rendered.
type Format string

const (
	FormatText  Format = "text"  // human-readable, optionally colored
	FormatJSON  Format = "json"  // one document per run
	FormatSARIF Format = "sarif" // SARIF 2.1.0 log
)

//nolint:gochecknoglobals // Read-only list.
var formats = []Format{FormatText, FormatJSON, FormatSARIF}

// ParseFormat maps a flag or config value to a Format. The empty string
// selects text; matching ignores case.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(name))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: %s", name, formatList())
	}
	return f, nil
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f names a supported format.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}

func formatList() string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
