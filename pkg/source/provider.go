// Package source holds the immutable text of compilation inputs and the
// machinery for pointing into it: providers, origins, and readers.
//
// A Provider owns its text for its whole lifetime and never mutates it, so
// any number of Readers may walk the same provider concurrently as long as
// each goroutine uses its own Reader.
package source

import (
	"fmt"
	"sync"
)

// FileType declares which grammar a file-backed source is written in.
type FileType uint8

const (
	// FileTypeMarkup is a DirectUI markup file (.dui, .ui, .uix, .xml).
	FileTypeMarkup FileType = iota
	// FileTypePreprocessor is a C-style header or source file.
	FileTypePreprocessor
)

// String returns the lowercase name used in config and CLI flags.
func (t FileType) String() string {
	switch t {
	case FileTypeMarkup:
		return "markup"
	case FileTypePreprocessor:
		return "preprocessor"
	default:
		return fmt.Sprintf("FileType(%d)", uint8(t))
	}
}

// ParseFileType parses the name produced by FileType.String.
func ParseFileType(name string) (FileType, error) {
	switch name {
	case "markup", "dui":
		return FileTypeMarkup, nil
	case "preprocessor", "header":
		return FileTypePreprocessor, nil
	default:
		return 0, fmt.Errorf("unknown file type %q; must be one of: markup, preprocessor", name)
	}
}

// Provider is the read-only view shared by every kind of source text.
type Provider interface {
	// Text returns the full source text.
	Text() string

	// LineOffsets returns the ascending byte offsets of every '\n' in Text.
	// The slice is computed once and must not be modified by callers.
	LineOffsets() []int

	// NewReader returns a fresh Reader positioned at the start of Text.
	NewReader() *Reader
}

// text is the storage embedded by every provider.
type text struct {
	content string

	linesOnce sync.Once
	lines     []int
}

func (t *text) Text() string {
	return t.content
}

func (t *text) LineOffsets() []int {
	t.linesOnce.Do(func() {
		t.lines = BuildLineOffsets(t.content)
	})
	return t.lines
}

// File is a Provider backed by a file on disk.
type File struct {
	text

	// Path is the path the file was loaded from, as given by the caller.
	Path string

	// Type selects the grammar the file is compiled with.
	Type FileType
}

// NewFile wraps already-loaded file content.
func NewFile(path string, fileType FileType, content string) *File {
	return &File{
		text: text{content: content},
		Path: path,
		Type: fileType,
	}
}

// NewReader implements Provider.
func (f *File) NewReader() *Reader {
	return newReader(f)
}

// String returns the file path.
func (f *File) String() string {
	return f.Path
}

// Anonymous is a Provider for in-memory text with no backing file, such as
// a macro expansion buffer or a test fixture.
type Anonymous struct {
	text
}

// NewAnonymous wraps content in an anonymous provider.
func NewAnonymous(content string) *Anonymous {
	return &Anonymous{text: text{content: content}}
}

// NewReader implements Provider.
func (a *Anonymous) NewReader() *Reader {
	return newReader(a)
}

// String returns a placeholder name for diagnostics.
func (a *Anonymous) String() string {
	return "<anonymous>"
}

// PathOf returns the path of a file-backed provider, or "" otherwise.
func PathOf(p Provider) string {
	if f, ok := p.(*File); ok && f != nil {
		return f.Path
	}
	return ""
}
