package reporter

import (
	"io"
	"os"
)

const bufWriterSize = 64 << 10

// Options configures a Reporter.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is "auto", "always", or "never". Only text output is colored.
	Color string

	// ShowContext prints the source line and a caret under each text
	// diagnostic.
	ShowContext bool

	// ShowSummary prints a one-line summary after text results. With
	// Verbose it becomes a full block that also lists skipped files.
	ShowSummary bool
	Verbose     bool

	GroupByFile bool
	Compact     bool // minified JSON and SARIF

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string

	// ToolVersion is recorded in JSON and SARIF output.
	ToolVersion string
}

// DefaultOptions returns colored-when-possible text output on stdout.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		ToolVersion: "dev",
	}
}
