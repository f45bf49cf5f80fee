// Package cli provides the Cobra command structure for duic.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/duic/internal/configloader"
	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	noLogo     bool
}

// NewRootCommand creates the root duic command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "duic",
		Short: "DirectUI markup compiler front end",
		Long: `duic reads DirectUI markup (.dui, .ui, .uix, .xml) and the C preprocessor
headers it includes, tokenizes both grammars, and builds a parse tree of
every preprocessor directive.

It reports lexical and directive errors with exact line and column, detects
include guards so a header reached twice is compiled once, and can dump the
token stream and directive tree as XML for debugging.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		Annotations: map[string]string{
			annotationEnvironment: environmentHelp(),
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flags.color, "color", "auto",
		"colorize output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flags.noLogo, "nologo", false, "suppress the startup banner")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitInvalidUsage, err)
	})

	// Add subcommands.
	rootCmd.AddCommand(newCompileCommand(info))
	rootCmd.AddCommand(newDumpCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(flags.color).ApplyToCommand(rootCmd)

	return rootCmd
}

// printBanner writes the startup logo to the command's error stream unless
// --nologo is set. Stdout stays reserved for reports.
func printBanner(cmd *cobra.Command, info BuildInfo) {
	if noLogo, err := cmd.Flags().GetBool("nologo"); err == nil && noLogo {
		return
	}

	color, err := cmd.Flags().GetString("color")
	if err != nil {
		color = "auto"
	}
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, cmd.ErrOrStderr()))

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n",
		styles.Banner.Render("duic"),
		styles.Dim.Render("DirectUI markup compiler "+info.Version),
	)
}

// environmentHelp lists the DUIC_* overrides for the root help.
func environmentHelp() string {
	vars := configloader.EnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}
	lines := make([]string, len(vars))
	for i, v := range vars {
		lines[i] = "  " + rpad(v.Name, width) + "  " + v.Doc
	}
	return strings.Join(lines, "\n")
}
