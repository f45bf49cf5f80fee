package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/duic/internal/configloader"
	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

type initFlags struct {
	force   bool
	full    bool
	format  string
	output  string
	defines []string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a duic configuration file",
		Long: `Create a .duic.yml configuration file in the current directory with the
default extension lists and an empty defines section.

Examples:
  duic init                      Create a minimal .duic.yml
  duic init --full               Document every setting
  duic init --format json        Create .duic.json instead
  duic init -D WIN32 -D VER=2    Seed the defines section`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every setting")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .duic.yml or .duic.json)")
	cmd.Flags().StringArrayVarP(&flags.defines, "define", "D", nil, "add a macro as NAME or NAME=VALUE (repeatable)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "json" {
		return usageErrorf("invalid format %q: must be yaml or json", flags.format)
	}

	defines, err := parseDefines(flags.defines)
	if err != nil {
		return err
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".duic.yml"
		if flags.format == "json" {
			outputPath = ".duic.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("resolve path: %w", err))
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return usageErrorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:    flags.full,
		Format:  flags.format,
		Defines: defines,
	})
	if err != nil {
		return withCode(ExitInternalError, fmt.Errorf("generate template: %w", err))
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, configFilePermissions); err != nil {
		return withCode(ExitIOError, fmt.Errorf("write %s: %w", outputPath, err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	if configloader.IsInteractive() {
		if !configloader.IsYAMLConfig(outputPath) {
			logger.Info("json files are not discovered automatically; pass --config " + outputPath)
		}
		logger.Info("run 'duic compile' to compile the current directory")
	}

	return nil
}
