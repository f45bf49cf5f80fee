package compiler

import (
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// Unit is the result of compiling one source.
type Unit struct {
	// Source is the compiled text. Holding the Unit keeps the source, and
	// any include-cache guard pointing at it, alive.
	Source source.Provider

	// Info describes the file on disk; nil for in-memory sources.
	Info *fsutil.FileInfo

	// Classification records how the file type was chosen.
	Classification Classification

	// Tokens is the full token sequence; nil after a lexical error.
	Tokens []token.Token

	// World is the preprocessor tree; nil if tokenizing failed.
	World *parsetree.Node

	// Defines is the macro table after the file's own #define and #undef.
	Defines *preprocessor.Defines

	// Directives counts the directives parsed.
	Directives int

	// Guard describes the file's include guard, if any.
	Guard preprocessor.Guard

	// Includes lists the #include directives and how they resolved.
	Includes []Include

	// Warnings are non-fatal directive notes.
	Warnings []*diag.Error

	// Err is the first fatal front-end error, if any.
	Err error
}

func newUnit(src source.Provider) *Unit {
	return &Unit{Source: src}
}

// Path returns the source's path, or "" for anonymous sources.
func (u *Unit) Path() string {
	return source.PathOf(u.Source)
}

// File returns the file-backed source, or nil.
func (u *Unit) File() *source.File {
	file, _ := u.Source.(*source.File)
	return file
}

// Failed reports whether compilation stopped on a fatal error.
func (u *Unit) Failed() bool {
	return u.Err != nil
}

// Guarded reports whether the file is include-guarded.
func (u *Unit) Guarded() bool {
	return u.Guard.Kind != preprocessor.GuardNone
}

// Diagnostics flattens warnings, include notes, and the fatal error into
// reportable records, in source order with the fatal error last.
func (u *Unit) Diagnostics() []diag.Diagnostic {
	path := u.Path()
	out := make([]diag.Diagnostic, 0, len(u.Warnings)+len(u.Includes)+1)

	for _, w := range u.Warnings {
		out = append(out, diag.FromError(w, path))
	}
	for _, inc := range u.Includes {
		if inc.Note != nil {
			out = append(out, diag.FromError(inc.Note, path))
		}
	}
	if u.Err != nil {
		out = append(out, diag.FromError(u.Err, path))
	}

	return out
}
