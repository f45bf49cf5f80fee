package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues (1 error, 2 warnings) in 2 files, 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%d %s compiled)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))))
	} else {
		var severityParts []string
		if n := stats.DiagnosticsBySeverity[string(diag.SeverityError)]; n > 0 {
			severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
		}
		if n := stats.DiagnosticsBySeverity[string(diag.SeverityWarning)]; n > 0 {
			severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
		}
		if n := stats.DiagnosticsBySeverity[string(diag.SeverityInfo)]; n > 0 {
			severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", n)))
		}

		main := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
		if len(severityParts) > 0 {
			main += " (" + strings.Join(severityParts, ", ") + ")"
		}
		main += fmt.Sprintf(" in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles))
		parts = append(parts, main)
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label, value))
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files compiled:", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesSkipped > 0 {
		row("Files skipped:", s.Dim.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.FilesGuarded > 0 {
		row("Guarded headers:", s.SummaryValue.Render(strconv.Itoa(stats.FilesGuarded)))
	}
	if stats.FilesWithIssues > 0 {
		row("Files with issues:", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	row("Tokens:", s.SummaryValue.Render(strconv.Itoa(stats.TokensTotal)))
	row("Directives:", s.SummaryValue.Render(strconv.Itoa(stats.DirectivesTotal)))

	builder.WriteString("\n")

	row("Total issues:", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	if n := stats.DiagnosticsBySeverity[string(diag.SeverityError)]; n > 0 {
		row("  Errors:", s.Error.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[string(diag.SeverityWarning)]; n > 0 {
		row("  Warnings:", s.Warning.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[string(diag.SeverityInfo)]; n > 0 {
		row("  Info:", s.Info.Render(strconv.Itoa(n)))
	}

	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[string(diag.SeverityError)] > 0:
		builder.WriteString(s.Failure.Render("Compilation failed with errors"))
	case stats.DiagnosticsBySeverity[string(diag.SeverityWarning)] > 0:
		builder.WriteString(s.Warning.Render("Compilation completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Compilation succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
