package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/duic/internal/ui/pretty"
	"github.com/yaklabco/duic/pkg/runner"
	"github.com/yaklabco/duic/pkg/source"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to compile."))
		}
		return 0, nil
	}

	var total int
	for i := range result.Files {
		total += r.reportFile(&result.Files[i])
	}

	if r.opts.ShowSummary {
		if r.opts.Verbose {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
	}

	return total, nil
}

// reportFile writes one outcome's diagnostics and returns how many it wrote.
func (r *TextReporter) reportFile(outcome *runner.FileOutcome) int {
	path := displayPath(outcome.Path, r.opts.WorkingDir)

	if outcome.Skipped {
		if r.opts.Verbose {
			fmt.Fprintf(r.bw, "%s %s\n", r.styles.FilePath.Render(path), r.styles.Dim.Render("skipped: "+outcome.SkipReason))
		}
		return 0
	}

	diagnostics := outcome.Diagnostics()
	if len(diagnostics) == 0 {
		return 0
	}

	var src source.Provider
	if outcome.Unit != nil {
		src = outcome.Unit.Source
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))
	}

	for i := range diagnostics {
		d := diagnostics[i]
		d.FilePath = displayPath(d.FilePath, r.opts.WorkingDir)

		var sourceLine string
		if r.opts.ShowContext && src != nil && d.Line > 0 {
			sourceLine = source.LineText(src, d.Line)
		}

		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&d, r.opts.ShowContext, sourceLine))
	}

	if r.opts.GroupByFile {
		// Blank line between files
		fmt.Fprintln(r.bw)
	}

	return len(diagnostics)
}
