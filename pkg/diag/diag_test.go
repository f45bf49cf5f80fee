package diag_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/source"
)

func TestSafeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "nul", in: "\x00", want: "[NUL]"},
		{name: "newline", in: "\n", want: `\n`},
		{name: "plain", in: "ifdef", want: "ifdef"},
		{name: "embedded tab", in: "a\tb", want: `a\tb`},
		{name: "bell", in: "a\x07", want: `a\x07`},
		{name: "utf8 untouched", in: "héllo", want: "héllo"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.want, diag.SafeText(testCase.in))
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	file := source.NewFile("main.dui", source.FileTypeMarkup, "#import foo\n")
	err := diag.Directive(diag.ErrUnsupportedDirective, source.At(file, 1), "import",
		"#%s is not supported", "import")

	assert.Equal(t, "main.dui:1:2: #import is not supported (near 'import')", err.Error())
	require.ErrorIs(t, err, diag.ErrUnsupportedDirective)
	assert.Equal(t, diag.CategoryDirective, err.Category)
	assert.Equal(t, diag.SeverityError, err.Severity)
}

func TestError_FormatWithoutOrigin(t *testing.T) {
	t.Parallel()

	err := diag.Internal(source.Origin{}, "dispatcher invoked at %q", "x")
	assert.Equal(t, `dispatcher invoked at "x"`, err.Error())
	require.ErrorIs(t, err, diag.ErrInternal)
}

func TestFromError(t *testing.T) {
	t.Parallel()

	file := source.NewFile("a.h", source.FileTypePreprocessor, "x\n#else\n")
	inner := diag.Directive(diag.ErrUnexpectedElse, source.At(file, 3), "else", "unexpected #else outside of #if")
	wrapped := fmt.Errorf("preprocess: %w", inner)

	got := diag.FromError(wrapped, "ignored.h")

	assert.Equal(t, "DUI0303", got.Code)
	assert.Equal(t, "unexpected-else", got.Name)
	assert.Equal(t, diag.SeverityError, got.Severity)
	assert.Equal(t, "a.h", got.FilePath)
	assert.Equal(t, 2, got.Line)
	assert.Equal(t, 2, got.Column)
	assert.Equal(t, "else", got.Lexeme)
	assert.Equal(t, "a.h:2:2", got.Location())
}

func TestFromError_PlainError(t *testing.T) {
	t.Parallel()

	got := diag.FromError(errors.New("disk on fire"), "x.dui")

	assert.Equal(t, "DUI0000", got.Code)
	assert.Equal(t, "x.dui", got.FilePath)
	assert.Equal(t, "disk on fire", got.Message)
	assert.Zero(t, got.Line)
}

func TestWarningf(t *testing.T) {
	t.Parallel()

	src := source.NewAnonymous("#line 4\n")
	note := diag.Warningf(diag.ErrUnsupportedDirective, source.At(src, 1), "line", "ignored #line")

	got := diag.FromError(note, "")
	assert.Equal(t, diag.SeverityWarning, got.Severity)
	assert.Equal(t, "DUI0307", got.Code)
}

func TestNotef(t *testing.T) {
	t.Parallel()

	src := source.NewAnonymous(`#include "missing.h"`)
	note := diag.Notef(diag.ErrIncludeNotFound, source.At(src, 10), "missing.h", "cannot resolve %q", "missing.h")

	got := diag.FromError(note, "view.dui")
	assert.Equal(t, diag.SeverityInfo, got.Severity)
	assert.Equal(t, "DUI0310", got.Code)
	assert.Equal(t, "include-not-found", got.Name)
	assert.Equal(t, "view.dui", got.FilePath)
	assert.Equal(t, 11, got.Column)
}
