// Package diag defines the errors raised by the compiler front end and the
// diagnostic records reporters consume.
//
// Every fatal condition is an *Error carrying the Origin of the offending
// token. Its Cause is one of the sentinel errors below, so callers can
// classify failures with errors.Is without string matching.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/duic/pkg/source"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// Lexical errors.
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated comment")

	// Token stream errors.
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrUnexpectedToken = errors.New("unexpected token")

	// Directive errors.
	ErrMissingEndOfLine        = errors.New("missing end of line")
	ErrInvalidArgument         = errors.New("invalid directive argument")
	ErrUnexpectedElse          = errors.New("unexpected #else")
	ErrUnexpectedElif          = errors.New("unexpected #elif")
	ErrUnexpectedEndif         = errors.New("unexpected #endif")
	ErrUnterminatedConditional = errors.New("unterminated conditional")
	ErrUnsupportedDirective    = errors.New("unsupported preprocessor directive")
	ErrHeaderOnlyDirective     = errors.New("header-only preprocessor directive")
	ErrUnknownDirective        = errors.New("unknown preprocessor command")
	ErrIncludeNotFound         = errors.New("include target not found")

	// ErrInternal marks a broken internal contract rather than bad input.
	ErrInternal = errors.New("internal error")
)

// Category is the coarse class of a front-end error.
type Category uint8

const (
	// CategoryLexical covers errors found while tokenizing.
	CategoryLexical Category = iota
	// CategoryDirective covers malformed or disallowed preprocessor directives.
	CategoryDirective
	// CategoryInternal covers violated internal contracts.
	CategoryInternal
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLexical:
		return "lexical"
	case CategoryDirective:
		return "directive"
	case CategoryInternal:
		return "internal"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// Error is a positional front-end error.
type Error struct {
	// Category classifies the error.
	Category Category

	// Cause is the sentinel error returned by Unwrap.
	Cause error

	// Message is the human-readable description, without position.
	Message string

	// Origin is where the offending construct starts.
	Origin source.Origin

	// Lexeme is the raw text of the offending token, if any.
	Lexeme string

	// Severity is SeverityError for fatal errors. Non-fatal notes collected
	// by the preprocessor use SeverityWarning.
	Severity Severity
}

// Error implements the error interface as "path:line:col: message (near 'x')".
func (e *Error) Error() string {
	var builder strings.Builder

	if !e.Origin.IsZero() {
		builder.WriteString(e.Origin.String())
		builder.WriteString(": ")
	}

	builder.WriteString(e.Message)

	if e.Lexeme != "" {
		builder.WriteString(" (near '")
		builder.WriteString(SafeText(e.Lexeme))
		builder.WriteString("')")
	}

	return builder.String()
}

// Unwrap returns the sentinel cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Newf builds a fatal Error.
func Newf(category Category, cause error, origin source.Origin, lexeme, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Cause:    cause,
		Message:  fmt.Sprintf(format, args...),
		Origin:   origin,
		Lexeme:   lexeme,
		Severity: SeverityError,
	}
}

// Lexical builds a CategoryLexical error.
func Lexical(cause error, origin source.Origin, lexeme, format string, args ...any) *Error {
	return Newf(CategoryLexical, cause, origin, lexeme, format, args...)
}

// Directive builds a CategoryDirective error.
func Directive(cause error, origin source.Origin, lexeme, format string, args ...any) *Error {
	return Newf(CategoryDirective, cause, origin, lexeme, format, args...)
}

// Internal builds a CategoryInternal error wrapping ErrInternal.
func Internal(origin source.Origin, format string, args ...any) *Error {
	return Newf(CategoryInternal, ErrInternal, origin, "", format, args...)
}

// Warningf builds a non-fatal directive note.
func Warningf(cause error, origin source.Origin, lexeme, format string, args ...any) *Error {
	err := Newf(CategoryDirective, cause, origin, lexeme, format, args...)
	err.Severity = SeverityWarning
	return err
}

// Notef builds an informational directive note.
func Notef(cause error, origin source.Origin, lexeme, format string, args ...any) *Error {
	err := Newf(CategoryDirective, cause, origin, lexeme, format, args...)
	err.Severity = SeverityInfo
	return err
}

// SafeText renders a lexeme for display, replacing bytes that would corrupt
// a single-line message with readable placeholders.
func SafeText(text string) string {
	switch text {
	case "\x00":
		return "[NUL]"
	case "\n":
		return `\n`
	}

	if !strings.ContainsFunc(text, isControl) {
		return text
	}

	var builder strings.Builder
	for idx := 0; idx < len(text); idx++ {
		char := text[idx]
		switch {
		case char == 0:
			builder.WriteString("[NUL]")
		case char == '\n':
			builder.WriteString(`\n`)
		case char == '\r':
			builder.WriteString(`\r`)
		case char == '\t':
			builder.WriteString(`\t`)
		case char < 0x20 || char == 0x7f:
			fmt.Fprintf(&builder, `\x%02x`, char)
		default:
			builder.WriteByte(char)
		}
	}
	return builder.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
