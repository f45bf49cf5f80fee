// Package compiler runs the DirectUI front end over one file at a time:
// load, decode, tokenize, parse preprocessor directives, and optionally
// validate the resulting tree.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/langdetect"
	"github.com/yaklabco/duic/pkg/lexer"
	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// ErrUnknownFileType indicates a file whose extension is not configured
// while content detection is disabled.
var ErrUnknownFileType = errors.New("unknown file type")

// Classification records how a file's type was chosen.
type Classification struct {
	// FileType is the grammar the file is compiled with.
	FileType source.FileType

	// Detected is true when the type came from content detection rather
	// than the extension lists.
	Detected bool

	// Language is the detected language name, set only when Detected.
	Language string
}

// Engine compiles files. It holds only read-only state and may be shared
// by concurrent workers.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	if opts.Defines == nil {
		opts.Defines = preprocessor.NewDefines()
	}
	return &Engine{opts: opts}
}

// Options returns the engine's options.
func (e *Engine) Options() Options {
	return e.opts
}

// Handles reports whether path has a configured extension.
func (e *Engine) Handles(path string) bool {
	_, ok := e.typeByExtension(path)
	return ok
}

func (e *Engine) typeByExtension(path string) (source.FileType, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return 0, false
	}
	if slices.Contains(e.opts.MarkupExtensions, ext) {
		return source.FileTypeMarkup, true
	}
	if slices.Contains(e.opts.PreprocessorExtensions, ext) {
		return source.FileTypePreprocessor, true
	}
	return 0, false
}

// Classify picks the grammar for a file, falling back to content
// detection for unconfigured extensions.
func (e *Engine) Classify(path string, content []byte) (Classification, error) {
	if fileType, ok := e.typeByExtension(path); ok {
		return Classification{FileType: fileType}, nil
	}

	if !e.opts.DetectLanguage {
		return Classification{}, fmt.Errorf("%w: %s", ErrUnknownFileType, path)
	}

	detected := langdetect.Detect(path, content)
	return Classification{
		FileType: detected.FileType,
		Detected: true,
		Language: detected.Language,
	}, nil
}

// CompileFile reads and compiles the file at path. The returned error
// covers only failures to read or classify the file; front-end errors are
// recorded in Unit.Err.
func (e *Engine) CompileFile(ctx context.Context, path string) (*Unit, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	class, err := e.Classify(path, content)
	if err != nil {
		return nil, err
	}

	text, err := fsutil.DecodeText(content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	logger := logging.FromContext(ctx)
	logger.Debug("loaded file",
		logging.FieldPath, path,
		logging.FieldFileType, class.FileType,
		logging.FieldDetected, class.Detected,
		logging.FieldEncoding, fsutil.DetectEncoding(content),
	)

	unit := e.Compile(ctx, source.NewFile(path, class.FileType, text))
	unit.Info = info
	unit.Classification = class
	return unit, nil
}

// Compile runs the front end over an already-loaded source.
func (e *Engine) Compile(ctx context.Context, src source.Provider) *Unit {
	start := time.Now()
	unit := newUnit(src)
	logger := logging.FromContext(ctx)

	defer func() {
		logger.Debug("compiled",
			logging.FieldPath, unit.Path(),
			logging.FieldTokens, len(unit.Tokens),
			logging.FieldDirectives, unit.Directives,
			logging.FieldWarnings, len(unit.Warnings),
			logging.FieldGuard, unit.Guard.Kind,
			logging.FieldDuration, time.Since(start),
		)
	}()

	if err := ctx.Err(); err != nil {
		unit.Err = fmt.Errorf("compile cancelled: %w", err)
		return unit
	}

	tokens, err := lexer.Tokenize(src, lexer.Options{})
	unit.Tokens = tokens
	if err != nil {
		unit.Err = err
		return unit
	}

	parser := preprocessor.New(src, e.opts.Defines.Clone())
	world, err := parser.Parse(token.NewStream(tokens))
	unit.World = world
	unit.Defines = parser.Defines()
	unit.Directives = parser.Directives()
	unit.Warnings = parser.Warnings()
	if err != nil {
		unit.Err = err
		return unit
	}

	unit.Guard = preprocessor.DetectGuard(world, parser.PragmaOnce())
	unit.Includes = e.resolveIncludes(src, world)

	if e.opts.ValidateTrees {
		if err := parsetree.Validate(world); err != nil {
			unit.Err = err
		}
	}

	return unit
}
