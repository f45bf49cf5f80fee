// Package pretty renders diagnostics, summaries, and help text for the
// terminal with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ANSI palette indexes.
const (
	colorGray    = lipgloss.Color("8")
	colorRed     = lipgloss.Color("9")
	colorGreen   = lipgloss.Color("10")
	colorYellow  = lipgloss.Color("11")
	colorBlue    = lipgloss.Color("12")
	colorMagenta = lipgloss.Color("13")
	colorCyan    = lipgloss.Color("14")
	colorWhite   = lipgloss.Color("7")
)

// Styles holds one renderer per kind of output element.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Code       lipgloss.Style
	Message    lipgloss.Style
	Lexeme     lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Banner is the startup logo and the command name in help.
	Banner lipgloss.Style

	// Heading titles help sections.
	Heading lipgloss.Style

	// Flag renders flag names and subcommands in help.
	Flag lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles returns colored styles, or pass-through styles when
// colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	bold := lipgloss.NewStyle().Bold(true)

	if !colorEnabled {
		fg = func(lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle() }
		bold = lipgloss.NewStyle()
	}

	return &Styles{
		Error:   fg(colorRed).Inherit(bold),
		Warning: fg(colorYellow).Inherit(bold),
		Info:    fg(colorBlue).Inherit(bold),

		FilePath:   bold,
		Location:   fg(colorGray),
		Code:       fg(colorGray),
		Message:    lipgloss.NewStyle(),
		Lexeme:     fg(colorMagenta),
		SourceLine: fg(colorWhite),
		Caret:      fg(colorRed),

		SummaryTitle: bold,
		SummaryValue: lipgloss.NewStyle(),
		Success:      fg(colorGreen).Inherit(bold),
		Failure:      fg(colorRed).Inherit(bold),

		Banner:  fg(colorCyan).Inherit(bold),
		Heading: fg(colorYellow).Inherit(bold),
		Flag:    fg(colorBlue),

		Dim:  fg(colorGray),
		Bold: bold,
	}
}

// IsColorEnabled resolves a --color mode ("auto", "always", "never") for
// writer. Auto enables color only on a terminal and honors NO_COLOR.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
