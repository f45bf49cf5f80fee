package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/duic/internal/ui/pretty"
)

// Command annotations rendered as extra help sections.
const (
	annotationExitCodes   = "exitcodes"
	annotationEnvironment = "environment"
)

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}
{{- if .Aliases}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if .IsAvailableCommand}}
  {{ flag (rpad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- with index .Annotations "environment"}}

{{ heading "Environment:" }}
{{ dim . }}
{{- end}}
{{- with index .Annotations "exitcodes"}}

{{ heading "Exit Codes:" }}
{{ dim . }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Run "{{ command (print .CommandPath " [command] --help") }}" for details on a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + usageTemplate

// flagLine splits a pflag usage line into indent, names, and description.
var flagLine = regexp.MustCompile(`^(\s*)(\S.*?)\s{2,}(\S.*)$`)

// HelpFormatter renders cobra help with pretty styles. Color is resolved
// from the --color flag when help is shown, after flags are parsed.
type HelpFormatter struct {
	fallbackMode string
}

// NewHelpFormatter creates a formatter that uses colorMode when a command
// has no --color flag.
func NewHelpFormatter(colorMode string) *HelpFormatter {
	return &HelpFormatter{fallbackMode: colorMode}
}

// ApplyToCommand installs the styled help and usage functions on cmd; its
// subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.render(c.OutOrStderr(), c, usageTemplate)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.render(c.OutOrStdout(), c, helpTemplate); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) render(w io.Writer, cmd *cobra.Command, text string) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = h.fallbackMode
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(mode, w))

	tmpl, err := template.New("help").Funcs(template.FuncMap{
		"heading": styles.Heading.Render,
		"command": styles.Banner.Render,
		"flag":    styles.Flag.Render,
		"dim":     styles.Dim.Render,
		"join":    strings.Join,
		"rpad":    rpad,
		"trim":    trimTrailingWhitespace,
		"flags": func(fs *pflag.FlagSet) string {
			return styleFlagUsages(styles, fs.FlagUsages())
		},
	}).Parse(text)
	if err != nil {
		return fmt.Errorf("parse help template: %w", err)
	}
	return tmpl.Execute(w, cmd)
}

// styleFlagUsages colors the flag names of pflag's aligned usage block.
// The type placeholder is dimmed; alignment is kept because styles only
// wrap text in escape codes.
func styleFlagUsages(styles *pretty.Styles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		indent, names := line[m[2]:m[3]], line[m[4]:m[5]]
		gap, desc := line[m[5]:m[6]], line[m[6]:]

		fields := strings.Fields(names)
		for j, field := range fields {
			if strings.HasPrefix(field, "-") {
				name := strings.TrimSuffix(field, ",")
				fields[j] = styles.Flag.Render(name) + field[len(name):]
			} else {
				fields[j] = styles.Dim.Render(field)
			}
		}

		lines[i] = indent + strings.Join(fields, " ") + gap + desc
	}
	return strings.Join(lines, "\n")
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
