package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/duic/pkg/diag"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
// When showContext is set and sourceLine is non-empty, the line is printed
// below the message with a caret under the diagnostic's column.
func (s *Styles) FormatDiagnostic(d *diag.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	// Location: path:line:col, or just the path when position is unknown.
	location := s.FilePath.Render(d.FilePath)
	if d.Line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", d.Line, d.Column))
	}

	message := s.Message.Render(d.Message)
	if d.Lexeme != "" {
		message += " " + s.Dim.Render("near") + " " + s.Lexeme.Render("'"+d.Lexeme+"'")
	}

	// Main line: location  severity  message  (code/name)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(d.Severity),
		message,
		s.Code.Render("("+d.Code+"/"+d.Name+")"),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, d.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev diag.Severity) string {
	switch sev {
	case diag.SeverityError:
		return s.Error.Render("error")
	case diag.SeverityWarning:
		return s.Warning.Render("warning")
	case diag.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		builder.WriteString(indent + strings.Repeat(" ", displayWidth(line, column-1)) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// tabWidth matches the tab expansion lipgloss applies when rendering.
const tabWidth = 4

// displayWidth returns the rendered width of the first n bytes of line.
// Bytes past the end of the line count as one column each.
func displayWidth(line string, n int) int {
	width := 0
	for i := range n {
		if i < len(line) && line[i] == '\t' {
			width += tabWidth
			continue
		}
		width++
	}
	return width
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
