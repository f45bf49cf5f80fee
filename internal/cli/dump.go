package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/compiler"
	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/debugxml"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

const (
	dumpTokens = "tokens"
	dumpTree   = "tree"
)

type dumpFlags struct {
	fileType string
	xml      bool
	defines  []string
}

func newDumpCommand() *cobra.Command {
	flags := &dumpFlags{}

	cmd := &cobra.Command{
		Use:   "dump tokens|tree FILE",
		Short: "Print the token stream or directive tree of one file",
		Long: `Compile a single file and print what the front end produced.

"tokens" prints one token per line with its kind, language, and position.
"tree" prints the preprocessor tree, one node per line, indented by depth.
With --xml both are written in the same XML form as --debug-parsing.

Examples:
  duic dump tokens main.dui
  duic dump tree include/defs.h -D WIN32
  duic dump tree notes.txt --type preprocessor --xml`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return withCode(ExitInvalidUsage, err)
			}
			if args[0] != dumpTokens && args[0] != dumpTree {
				return usageErrorf("unknown dump kind %q; must be %s or %s", args[0], dumpTokens, dumpTree)
			}
			return nil
		},
		ValidArgs: []string{dumpTokens, dumpTree},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.fileType, "type", "", "grammar to use: markup or preprocessor (default: by extension)")
	cmd.Flags().BoolVar(&flags.xml, "xml", false, "write XML instead of text")
	cmd.Flags().StringArrayVarP(&flags.defines, "define", "D", nil, "predefine a macro as NAME or NAME=VALUE (repeatable)")

	return cmd
}

func runDump(cmd *cobra.Command, kind, path string, flags *dumpFlags) error {
	ctx := commandContext(cmd)

	defines, err := parseDefines(flags.defines)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(ctx, cmd, &config.Config{Defines: defines})
	if err != nil {
		return err
	}

	opts, err := compiler.OptionsFromConfig(cfg)
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	engine := compiler.NewEngine(opts)

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return withCode(ExitIOError, err)
	}

	var fileType source.FileType
	if flags.fileType != "" {
		fileType, err = source.ParseFileType(flags.fileType)
		if err != nil {
			return withCode(ExitInvalidUsage, err)
		}
	} else {
		class, err := engine.Classify(path, content)
		if err != nil {
			return withCode(ExitInvalidUsage, fmt.Errorf("%w (use --type)", err))
		}
		fileType = class.FileType
	}

	text, err := fsutil.DecodeText(content)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("decode %s: %w", path, err))
	}

	unit := engine.Compile(ctx, source.NewFile(path, fileType, text))
	logging.FromContext(ctx).Debug("dumping",
		logging.FieldPath, path,
		logging.FieldFileType, fileType,
		logging.FieldTokens, len(unit.Tokens),
	)

	out := cmd.OutOrStdout()
	switch kind {
	case dumpTokens:
		err = writeTokens(out, unit.Tokens, flags.xml)
	default:
		err = writeTree(out, unit.World, flags.xml)
	}
	if err != nil {
		return withCode(ExitIOError, err)
	}

	if unit.Err != nil {
		return withCode(ExitDiagnostics, unit.Err)
	}
	return nil
}

func writeTokens(w io.Writer, tokens []token.Token, asXML bool) error {
	if asXML {
		return debugxml.WriteTokens(w, tokens)
	}
	for _, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%-10s %-12s %-8s %s\n",
			tok.Kind, tok.Language, tok.Origin.Position(), quoteLexeme(tok)); err != nil {
			return fmt.Errorf("write tokens: %w", err)
		}
	}
	return nil
}

func quoteLexeme(tok token.Token) string {
	return "'" + tok.SafeString() + "'"
}

func writeTree(w io.Writer, root *parsetree.Node, asXML bool) error {
	if root == nil {
		return nil
	}
	if asXML {
		return debugxml.WriteTree(w, root)
	}

	return parsetree.Walk(root, func(n *parsetree.Node) error {
		var line strings.Builder
		line.WriteString(strings.Repeat("  ", parsetree.Depth(n)))
		line.WriteString(n.Name())
		for _, key := range n.AttributeKeys() {
			value, _ := n.Attribute(key)
			fmt.Fprintf(&line, " %s=%q", key, value)
		}
		fmt.Fprintf(&line, " @ %s\n", n.Origin().Position())

		if _, err := io.WriteString(w, line.String()); err != nil {
			return fmt.Errorf("write tree: %w", err)
		}
		return nil
	})
}
