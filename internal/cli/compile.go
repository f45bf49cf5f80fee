package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/compiler"
	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/debugxml"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/reporter"
	"github.com/yaklabco/duic/pkg/runner"
)

// reportFilePermissions is the file mode for --out reports.
const reportFilePermissions = 0o644

type compileFlags struct {
	format        string
	jobs          int
	ignore        []string
	defines       []string
	includeDirs   []string
	markupExts    []string
	ppExts        []string
	strict        bool
	out           string
	debugParsing  bool
	validateTrees bool
	noDetect      bool
	noContext     bool
	compact       bool
	verbose       bool
}

func newCompileCommand(info BuildInfo) *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:     "compile [paths...]",
		Aliases: []string{"check"},
		Short:   "Compile markup and header files and report diagnostics",
		Long:    compileLongDescription,
		Args:    cobra.ArbitraryArgs,
		Annotations: map[string]string{
			annotationExitCodes: compileExitCodes,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner(cmd, info)
			return runCompile(cmd, args, flags, info)
		},
	}

	addCompileFlags(cmd, flags)

	return cmd
}

const compileLongDescription = `Tokenize and preprocess DirectUI markup and header files.

By default, compiles every markup (.dui .ui .uix .xml) and header
(.h .hpp .hxx .c .cpp .cxx) file under the current directory. Files named
explicitly with another extension are classified by content.

Examples:
  duic compile                        # Compile current directory
  duic compile views/ include/        # Compile two trees
  duic compile main.dui -D DEBUG      # Seed a macro
  duic compile -I sdk/include         # Resolve <...> includes in sdk/include
  duic compile --format sarif --out report.sarif
  duic compile --debug-parsing main.dui   # Dump tokens and tree as XML`

const compileExitCodes = `  0   no errors
  1   errors reported
  2   warnings reported with --strict
  64  invalid usage
  65  invalid configuration
  70  internal error
  74  file I/O error`

func addCompileFlags(cmd *cobra.Command, flags *compileFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringArrayVarP(&flags.defines, "define", "D", nil, "predefine a macro as NAME or NAME=VALUE (repeatable)")
	cmd.Flags().StringSliceVarP(&flags.includeDirs, "include-dir", "I", nil, "directory searched for #include targets")
	cmd.Flags().StringSliceVar(&flags.markupExts, "dui-ext", nil, "markup file extensions (replaces the default list)")
	cmd.Flags().StringSliceVar(&flags.ppExts, "pp-ext", nil, "header file extensions (replaces the default list)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&flags.debugParsing, "debug-parsing", false, "print token streams and trees as XML instead of a report")
	cmd.Flags().BoolVar(&flags.validateTrees, "validate-trees", false, "check parse tree invariants after each file")
	cmd.Flags().BoolVar(&flags.noDetect, "no-detect", false, "disable content-based classification of unknown extensions")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "show skipped files and the full summary")
}

// cliConfig maps explicitly set flags onto a config layer.
func (f *compileFlags) cliConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		if !config.OutputFormat(f.format).IsValid() {
			return nil, usageErrorf("invalid format %q; valid formats: text, json, sarif", f.format)
		}
		cfg.Format = f.format
	}
	if changed("jobs") {
		if f.jobs < 0 {
			return nil, usageErrorf("--jobs must be non-negative")
		}
		cfg.Jobs = f.jobs
	}

	defines, err := parseDefines(f.defines)
	if err != nil {
		return nil, err
	}
	cfg.Defines = defines

	cfg.Ignore = f.ignore
	cfg.IncludeDirs = f.includeDirs
	cfg.MarkupExtensions = f.markupExts
	cfg.PreprocessorExtensions = f.ppExts
	cfg.Strict = f.strict
	cfg.ValidateTrees = f.validateTrees
	cfg.Output = f.out

	if f.noDetect {
		detect := false
		cfg.DetectLanguage = &detect
	}

	return cfg, nil
}

func runCompile(cmd *cobra.Command, args []string, flags *compileFlags, info BuildInfo) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	cliCfg, err := flags.cliConfig(cmd)
	if err != nil {
		return err
	}

	cfg, workDir, err := loadConfig(ctx, cmd, cliCfg)
	if err != nil {
		return err
	}

	engineOpts, err := compiler.OptionsFromConfig(cfg)
	if err != nil {
		return withCode(ExitConfigError, err)
	}

	logger.Debug("configuration loaded",
		logging.FieldFormat, cfg.OutputFormat(),
		logging.FieldJobs, cfg.Jobs,
		logging.FieldDefines, engineOpts.Defines.Names(),
	)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logger.Debug("starting compile run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
	)

	result, err := runner.New(compiler.NewEngine(engineOpts)).Run(ctx, runOpts)
	if err != nil {
		if ExitCode(err) == ExitIOError {
			return err
		}
		return withCode(ExitInternalError, errors.Join(errors.New("compile run failed"), err))
	}

	var out bytes.Buffer
	var writer io.Writer = cmd.OutOrStdout()
	if cfg.Output != "" {
		writer = &out
	}

	if flags.debugParsing {
		err = writeDebugParsing(writer, result)
	} else {
		err = report(ctx, cmd, writer, result, cfg, flags, workDir, info)
	}
	if err != nil {
		return withCode(ExitIOError, err)
	}

	if cfg.Output != "" {
		if err := fsutil.WriteAtomic(ctx, cfg.Output, out.Bytes(), reportFilePermissions); err != nil {
			return withCode(ExitIOError, fmt.Errorf("write report: %w", err))
		}
		logger.Debug("report written", logging.FieldOutput, cfg.Output)
	}

	switch code := ExitCodeFromResult(result, cfg.Strict); code {
	case ExitSuccess:
		return nil
	default:
		return withCode(code, ErrIssuesFound)
	}
}

func report(
	ctx context.Context,
	cmd *cobra.Command,
	writer io.Writer,
	result *runner.Result,
	cfg *config.Config,
	flags *compileFlags,
	workDir string,
	info BuildInfo,
) error {
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}
	if cfg.Output != "" {
		colorMode = "never"
	}

	format, err := reporter.ParseFormat(string(cfg.OutputFormat()))
	if err != nil {
		return err
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      writer,
		Format:      format,
		Color:       colorMode,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Verbose:     flags.verbose,
		GroupByFile: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
		ToolVersion: info.Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

// writeDebugParsing writes each compiled file's token stream and tree as XML.
func writeDebugParsing(w io.Writer, result *runner.Result) error {
	for _, outcome := range result.Files {
		unit := outcome.Unit
		if unit == nil {
			continue
		}

		if _, err := fmt.Fprintf(w, "<!-- %s -->\n", outcome.Path); err != nil {
			return fmt.Errorf("write debug output: %w", err)
		}
		if unit.Tokens != nil {
			if err := debugxml.WriteTokens(w, unit.Tokens); err != nil {
				return fmt.Errorf("write tokens for %s: %w", outcome.Path, err)
			}
		}
		if unit.World != nil {
			if err := debugxml.WriteTree(w, unit.World); err != nil {
				return fmt.Errorf("write tree for %s: %w", outcome.Path, err)
			}
		}
		if unit.Err != nil {
			if _, err := fmt.Fprintf(w, "<!-- error: %s -->\n", unit.Err); err != nil {
				return fmt.Errorf("write debug output: %w", err)
			}
		}
	}
	return nil
}
