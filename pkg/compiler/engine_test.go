package compiler_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/compiler"
	"github.com/yaklabco/duic/pkg/config"
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/source"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestEngine_Classify(t *testing.T) {
	t.Parallel()

	engine := compiler.NewEngine(compiler.DefaultOptions())

	tests := []struct {
		name         string
		path         string
		content      string
		wantType     source.FileType
		wantDetected bool
	}{
		{name: "markup extension", path: "main.dui", wantType: source.FileTypeMarkup},
		{name: "xml extension", path: "layout.xml", wantType: source.FileTypeMarkup},
		{name: "header extension", path: "defs.h", wantType: source.FileTypePreprocessor},
		{name: "case insensitive", path: "DEFS.HPP", wantType: source.FileTypePreprocessor},
		{
			name:         "unknown extension detected as markup",
			path:         "view.layout",
			content:      "<Root>\n  <Button/>\n</Root>\n",
			wantType:     source.FileTypeMarkup,
			wantDetected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			class, err := engine.Classify(tt.path, []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, class.FileType)
			assert.Equal(t, tt.wantDetected, class.Detected)
		})
	}
}

func TestEngine_ClassifyWithoutDetection(t *testing.T) {
	t.Parallel()

	opts := compiler.DefaultOptions()
	opts.DetectLanguage = false
	engine := compiler.NewEngine(opts)

	_, err := engine.Classify("notes.txt", []byte("hello"))
	require.ErrorIs(t, err, compiler.ErrUnknownFileType)
	assert.False(t, engine.Handles("notes.txt"))
	assert.True(t, engine.Handles("main.uix"))
}

func TestEngine_CompileFile_GuardedHeader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "defs.h", []byte("#ifndef DEFS_H\n#define DEFS_H\n#define WIDTH 10\n#endif\n"))

	unit, err := compiler.NewEngine(compiler.DefaultOptions()).CompileFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, unit.Failed(), "unexpected error: %v", unit.Err)

	assert.Equal(t, preprocessor.Guard{Kind: preprocessor.GuardMacro, Macro: "DEFS_H"}, unit.Guard)
	assert.True(t, unit.Guarded())
	assert.Equal(t, 4, unit.Directives)
	assert.Equal(t, path, unit.Path())
	assert.Same(t, unit.Source, unit.File())
	assert.Equal(t, source.FileTypePreprocessor, unit.File().Type)
	require.NotNil(t, unit.Info)
	assert.NotEmpty(t, unit.Info.Identity)
	assert.Empty(t, unit.Diagnostics())

	assert.True(t, unit.Defines.IsDefined("WIDTH"))
}

func TestEngine_CompileFile_PragmaOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "once.h", []byte("#pragma once\n#define X 1\n"))

	unit, err := compiler.NewEngine(compiler.DefaultOptions()).CompileFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, preprocessor.GuardPragmaOnce, unit.Guard.Kind)
}

func TestEngine_CompileFile_DirectivePolicy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	markup := writeFile(t, dir, "main.dui", []byte("#import \"x\"\n<Root/>\n"))
	header := writeFile(t, dir, "defs.h", []byte("#import \"x\"\n#define Y\n"))
	engine := compiler.NewEngine(compiler.DefaultOptions())

	t.Run("markup rejects", func(t *testing.T) {
		t.Parallel()

		unit, err := engine.CompileFile(context.Background(), markup)
		require.NoError(t, err)
		require.ErrorIs(t, unit.Err, diag.ErrUnsupportedDirective)

		diags := unit.Diagnostics()
		require.Len(t, diags, 1)
		assert.Equal(t, diag.SeverityError, diags[0].Severity)
		assert.Equal(t, "DUI0307", diags[0].Code)
		assert.Equal(t, markup, diags[0].FilePath)
		assert.Equal(t, 1, diags[0].Line)
		assert.Equal(t, 2, diags[0].Column)
	})

	t.Run("header warns", func(t *testing.T) {
		t.Parallel()

		unit, err := engine.CompileFile(context.Background(), header)
		require.NoError(t, err)
		require.False(t, unit.Failed())

		diags := unit.Diagnostics()
		require.Len(t, diags, 1)
		assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
		assert.Contains(t, diags[0].Message, "ignored: ")
		assert.True(t, unit.Defines.IsDefined("Y"))
	})
}

func TestEngine_CompileFile_LexicalError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "bad.dui", []byte("<Text Value=\"open>\n"))

	unit, err := compiler.NewEngine(compiler.DefaultOptions()).CompileFile(context.Background(), path)
	require.NoError(t, err)
	require.ErrorIs(t, unit.Err, diag.ErrUnterminatedString)
	assert.Nil(t, unit.World)

	diags := unit.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "unterminated-string", diags[0].Name)
}

func TestEngine_CompileFile_IOErrors(t *testing.T) {
	t.Parallel()

	engine := compiler.NewEngine(compiler.DefaultOptions())

	_, err := engine.CompileFile(context.Background(), filepath.Join(t.TempDir(), "missing.dui"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	opts := compiler.DefaultOptions()
	opts.DetectLanguage = false
	dir := t.TempDir()
	path := writeFile(t, dir, "README", []byte("text"))

	_, err = compiler.NewEngine(opts).CompileFile(context.Background(), path)
	require.ErrorIs(t, err, compiler.ErrUnknownFileType)
}

func TestEngine_CompileFile_UTF16(t *testing.T) {
	t.Parallel()

	content := []byte{0xFF, 0xFE}
	for _, b := range []byte("#define A 1\n") {
		content = append(content, b, 0)
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "wide.h", content)

	unit, err := compiler.NewEngine(compiler.DefaultOptions()).CompileFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, unit.Failed(), "unexpected error: %v", unit.Err)

	macro, ok := unit.Defines.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "1", macro.Value)
}

func TestEngine_DefinesAreIsolated(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Defines = map[string]string{"SEED": "1"}
	opts, err := compiler.OptionsFromConfig(cfg)
	require.NoError(t, err)
	engine := compiler.NewEngine(opts)

	src := source.NewFile("undef.h", source.FileTypePreprocessor, "#undef SEED\n#define LOCAL\n")
	unit := engine.Compile(context.Background(), src)
	require.False(t, unit.Failed(), "unexpected error: %v", unit.Err)

	assert.False(t, unit.Defines.IsDefined("SEED"))
	assert.True(t, unit.Defines.IsDefined("LOCAL"))
	assert.True(t, engine.Options().Defines.IsDefined("SEED"))
	assert.False(t, engine.Options().Defines.IsDefined("LOCAL"))
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MarkupExtensions = []string{".DUI"}
	cfg.ValidateTrees = true
	off := false
	cfg.DetectLanguage = &off

	opts, err := compiler.OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{".dui"}, opts.MarkupExtensions)
	assert.True(t, opts.ValidateTrees)
	assert.False(t, opts.DetectLanguage)

	cfg.Defines = map[string]string{"9LIVES": "1"}
	_, err = compiler.OptionsFromConfig(cfg)
	require.Error(t, err)

	opts, err = compiler.OptionsFromConfig(nil)
	require.NoError(t, err)
	assert.True(t, opts.DetectLanguage)
}

func TestEngine_ResolvesIncludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sysDir := filepath.Join(dir, "sdk")
	writeFile(t, dir, "defs.h", []byte("#define A\n"))
	writeFile(t, sysDir, "sys.h", []byte("#define B\n"))
	path := writeFile(t, dir, "main.dui", []byte(
		"#include \"defs.h\"\n#include \"missing.h\"\n#include <sys.h>\n#include <absent.h>\n<Root/>\n"))

	opts := compiler.DefaultOptions()
	opts.IncludeDirs = []string{sysDir}
	unit, err := compiler.NewEngine(opts).CompileFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, unit.Failed(), "unexpected error: %v", unit.Err)
	require.Len(t, unit.Includes, 4)

	defsID, err := fsutil.Identity(filepath.Join(dir, "defs.h"))
	require.NoError(t, err)
	sysID, err := fsutil.Identity(filepath.Join(sysDir, "sys.h"))
	require.NoError(t, err)

	assert.Equal(t, defsID, unit.Includes[0].Resolved)
	resolved, ok := unit.Includes[0].Node.Attribute(compiler.AttrResolved)
	assert.True(t, ok)
	assert.Equal(t, defsID, resolved)

	assert.Empty(t, unit.Includes[1].Resolved)
	require.NotNil(t, unit.Includes[1].Note)

	assert.Equal(t, sysID, unit.Includes[2].Resolved)
	assert.Empty(t, unit.Includes[3].Resolved)
	assert.Nil(t, unit.Includes[3].Note)

	diags := unit.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, diag.SeverityInfo, diags[0].Severity)
	assert.Equal(t, "include-not-found", diags[0].Name)
	assert.Equal(t, 2, diags[0].Line)
}

func TestEngine_ValidateTrees(t *testing.T) {
	t.Parallel()

	opts := compiler.DefaultOptions()
	opts.ValidateTrees = true
	engine := compiler.NewEngine(opts)

	src := source.NewFile("nested.h", source.FileTypePreprocessor,
		"#if defined(A) && !B\n#ifdef C\n#elif D | 2\n#else\n#endif\n#endif\n")
	unit := engine.Compile(context.Background(), src)
	require.NoError(t, unit.Err)
	assert.Equal(t, 6, unit.Directives)
}

func TestEngine_Compile_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	unit := compiler.NewEngine(compiler.DefaultOptions()).Compile(ctx, source.NewAnonymous("#define A\n"))
	require.ErrorIs(t, unit.Err, context.Canceled)
	assert.Empty(t, unit.Tokens)
}

func TestEngine_LogsAtDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))

	unit := compiler.NewEngine(compiler.DefaultOptions()).Compile(ctx, source.NewAnonymous("#define A\n"))
	require.NoError(t, unit.Err)

	assert.Contains(t, buf.String(), "compiled")
	assert.Contains(t, buf.String(), "directives=1")
}
