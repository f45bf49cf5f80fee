// Package langdetect guesses whether a file with an unrecognized extension
// holds DirectUI markup or a C-style header. It uses go-enry for extension
// and content classification, with a few markup-specific patterns first.
package langdetect

import (
	"bytes"
	"regexp"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/duic/pkg/source"
)

// Language names reported in Result.
const (
	langC      = "C"
	langCPP    = "C++"
	langObjC   = "Objective-C"
	langXML    = "XML"
	langText   = "Text"
	langDirect = "DirectUI"
)

// Result is the outcome of Detect.
type Result struct {
	// FileType is the grammar the file should be compiled with.
	FileType source.FileType

	// Language is the detected language name.
	Language string

	// Confident is false when nothing matched and FileType is the default.
	Confident bool
}

var (
	// An element start such as "<Button" or a closing "</Root>".
	elementPattern = regexp.MustCompile(`(?m)^\s*</?[A-Za-z_][\w.:-]*[\s/>]`)

	// A directive at the start of a line.
	directivePattern = regexp.MustCompile(`(?m)^\s*#\s*(include|define|ifn?def|if|pragma|undef)\b`)

	// C declarations that never appear in markup.
	declarationPattern = regexp.MustCompile(`(?m)^\s*(typedef|struct|enum|extern|static|class|namespace)\b`)
)

// classifierCandidates are the languages the content classifier chooses
// between.
var classifierCandidates = []string{langC, langCPP, langXML}

// Detect classifies a file by name and content. Unrecognized files default
// to markup.
func Detect(path string, content []byte) Result {
	if result, ok := fromExtension(path, content); ok {
		return result
	}

	if result, ok := detectByPattern(content); ok {
		return result
	}

	if len(bytes.TrimSpace(content)) > 0 {
		if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe {
			if result, ok := fromLanguage(lang); ok {
				return result
			}
		}
	}

	return Result{FileType: source.FileTypeMarkup, Language: langText}
}

// detectByPattern checks for constructs that settle the question outright.
func detectByPattern(content []byte) (Result, bool) {
	trimmed := bytes.TrimSpace(content)

	if bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return Result{FileType: source.FileTypeMarkup, Language: langXML, Confident: true}, true
	}

	// Markup files may contain directives too, so elements win.
	if elementPattern.Match(content) {
		return Result{FileType: source.FileTypeMarkup, Language: langDirect, Confident: true}, true
	}

	if declarationPattern.Match(content) || directivePattern.Match(content) {
		return Result{FileType: source.FileTypePreprocessor, Language: langC, Confident: true}, true
	}

	return Result{}, false
}

// fromExtension decides by file extension when every language go-enry
// associates with it maps to the same file type, as for ".h".
func fromExtension(path string, content []byte) (Result, bool) {
	langs := enry.GetLanguagesByExtension(path, content, nil)
	if len(langs) == 0 {
		return Result{}, false
	}

	first, ok := fromLanguage(langs[0])
	if !ok {
		return Result{}, false
	}
	for _, lang := range langs[1:] {
		if other, ok := fromLanguage(lang); !ok || other.FileType != first.FileType {
			return Result{}, false
		}
	}

	return first, true
}

// fromLanguage maps a go-enry language name to a file type.
func fromLanguage(lang string) (Result, bool) {
	switch lang {
	case langC, langCPP, langObjC:
		return Result{FileType: source.FileTypePreprocessor, Language: lang, Confident: true}, true
	case langXML:
		return Result{FileType: source.FileTypeMarkup, Language: lang, Confident: true}, true
	default:
		return Result{}, false
	}
}
