package diag

import (
	"errors"
	"fmt"
)

// Severity is the reporting level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a flattened, position-resolved record of an error, ready
// for reporters. It carries no references into source text.
type Diagnostic struct {
	// Code is the stable identifier, e.g. "DUI0101".
	Code string

	// Name is the human-readable identifier, e.g. "unterminated-string".
	Name string

	// Severity is the reporting level.
	Severity Severity

	// Category is the taxonomy class.
	Category Category

	// Message is the description without position.
	Message string

	// FilePath is the file the diagnostic refers to, if any.
	FilePath string

	// Line and Column are 1-based; zero when unknown.
	Line   int
	Column int

	// Lexeme is the offending token text, rendered with SafeText.
	Lexeme string
}

// Location returns "path:line:col".
func (d *Diagnostic) Location() string {
	return fmt.Sprintf("%s:%d:%d", d.FilePath, d.Line, d.Column)
}

// codeEntry describes how a sentinel is reported.
type codeEntry struct {
	cause error
	code  string
	name  string
}

// codeTable maps sentinels to stable codes, in match order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var codeTable = []codeEntry{
	{ErrUnterminatedString, "DUI0101", "unterminated-string"},
	{ErrUnterminatedComment, "DUI0102", "unterminated-comment"},
	{ErrUnexpectedEOF, "DUI0201", "unexpected-eof"},
	{ErrUnexpectedToken, "DUI0202", "unexpected-token"},
	{ErrMissingEndOfLine, "DUI0301", "missing-end-of-line"},
	{ErrInvalidArgument, "DUI0302", "invalid-argument"},
	{ErrUnexpectedElse, "DUI0303", "unexpected-else"},
	{ErrUnexpectedElif, "DUI0304", "unexpected-elif"},
	{ErrUnexpectedEndif, "DUI0305", "unexpected-endif"},
	{ErrUnterminatedConditional, "DUI0306", "unterminated-conditional"},
	{ErrUnsupportedDirective, "DUI0307", "unsupported-directive"},
	{ErrHeaderOnlyDirective, "DUI0308", "header-only-directive"},
	{ErrUnknownDirective, "DUI0309", "unknown-directive"},
	{ErrIncludeNotFound, "DUI0310", "include-not-found"},
	{ErrInternal, "DUI0901", "internal-error"},
}

// Code returns the stable code and name for err, or ("DUI0000", "error")
// when err matches no known sentinel.
func Code(err error) (string, string) {
	for _, entry := range codeTable {
		if errors.Is(err, entry.cause) {
			return entry.code, entry.name
		}
	}
	return "DUI0000", "error"
}

// FromError converts any error into a Diagnostic. Positional information is
// taken from the first *Error in the chain; other errors are reported
// against filePath with no position.
func FromError(err error, filePath string) Diagnostic {
	code, name := Code(err)

	var frontEnd *Error
	if !errors.As(err, &frontEnd) {
		return Diagnostic{
			Code:     code,
			Name:     name,
			Severity: SeverityError,
			Category: CategoryInternal,
			Message:  err.Error(),
			FilePath: filePath,
		}
	}

	pos := frontEnd.Origin.Position()
	path := frontEnd.Origin.Path()
	if path == "" {
		path = filePath
	}

	severity := frontEnd.Severity
	if severity == "" {
		severity = SeverityError
	}

	return Diagnostic{
		Code:     code,
		Name:     name,
		Severity: severity,
		Category: frontEnd.Category,
		Message:  frontEnd.Message,
		FilePath: path,
		Line:     pos.Line,
		Column:   pos.Column,
		Lexeme:   SafeText(frontEnd.Lexeme),
	}
}
