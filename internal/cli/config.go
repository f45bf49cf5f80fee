package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/duic/internal/configloader"
	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/preprocessor"
)

// loadConfig resolves the layered configuration with cliCfg on top and logs
// any warnings. It returns the configuration and the working directory.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.FromContext(ctx)

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", withCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", withCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}
	if logger.GetLevel() <= log.DebugLevel {
		if effective, err := loadResult.Config.ToYAML(); err == nil {
			logger.Debug("effective configuration\n" + string(effective))
		}
	}

	return loadResult.Config, workDir, nil
}

// parseDefines converts repeated NAME[=VALUE] flags into a defines map.
func parseDefines(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	defines := make(map[string]string, len(specs))
	for _, spec := range specs {
		name, value, err := preprocessor.ParseDefineFlag(spec)
		if err != nil {
			return nil, usageErrorf("--define %s: %w", spec, err)
		}
		defines[name] = value
	}
	return defines, nil
}

// commandContext returns the command's context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}
