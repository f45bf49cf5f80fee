// Package token defines the lexical units produced by the tokenizer and the
// cursor-carrying stream the directive parser consumes.
package token

import (
	"fmt"

	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/source"
)

// Kind classifies a token's lexeme.
type Kind uint8

const (
	// KindSymbol is an identifier, number, punctuation byte, delimiter, or
	// the synthetic end-of-line token.
	KindSymbol Kind = iota
	// KindStringLiteral is the decoded body of a quoted literal.
	KindStringLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "Symbol"
	case KindStringLiteral:
		return "StringLiteral"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Language tags the grammar a token belongs to.
type Language uint8

const (
	// LanguageMarkup is the DirectUI markup grammar.
	LanguageMarkup Language = iota
	// LanguagePreprocessor is the C preprocessor grammar.
	LanguagePreprocessor
)

// String returns the language name.
func (l Language) String() string {
	switch l {
	case LanguageMarkup:
		return "Markup"
	case LanguagePreprocessor:
		return "Preprocessor"
	default:
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
}

// LanguageSet is the set of languages a tokenizer session accepts.
type LanguageSet uint8

// NewLanguageSet builds a set from individual languages.
func NewLanguageSet(langs ...Language) LanguageSet {
	var set LanguageSet
	for _, lang := range langs {
		set |= 1 << lang
	}
	return set
}

// Has reports whether lang is in the set.
func (s LanguageSet) Has(lang Language) bool {
	return s&(1<<lang) != 0
}

// String lists the member languages.
func (s LanguageSet) String() string {
	switch s {
	case 0:
		return "none"
	case NewLanguageSet(LanguageMarkup):
		return "Markup"
	case NewLanguageSet(LanguagePreprocessor):
		return "Preprocessor"
	case NewLanguageSet(LanguageMarkup, LanguagePreprocessor):
		return "Markup|Preprocessor"
	default:
		return fmt.Sprintf("LanguageSet(%#x)", uint8(s))
	}
}

// LanguagesFor returns the languages a file type accepts by default: markup
// files carry both grammars, headers carry only directives.
func LanguagesFor(fileType source.FileType) LanguageSet {
	if fileType == source.FileTypePreprocessor {
		return NewLanguageSet(LanguagePreprocessor)
	}
	return NewLanguageSet(LanguageMarkup, LanguagePreprocessor)
}

// EndOfLine is the lexeme of the synthetic token that ends a logical line.
const EndOfLine = "\n"

// Token is an immutable lexeme with its classification and origin.
type Token struct {
	Text     string
	Kind     Kind
	Language Language
	Origin   source.Origin
}

// Is reports whether the token is a Symbol with the given text.
func (t Token) Is(text string) bool {
	return t.Kind == KindSymbol && t.Text == text
}

// IsEndOfLine reports whether the token is the synthetic line terminator.
func (t Token) IsEndOfLine() bool {
	return t.Kind == KindSymbol && t.Text == EndOfLine
}

// SafeString returns the lexeme with control bytes rendered readably.
func (t Token) SafeString() string {
	return diag.SafeText(t.Text)
}

// String returns "Kind(Language) 'text' @ origin" for debugging.
func (t Token) String() string {
	return fmt.Sprintf("%s(%s) '%s' @ %s", t.Kind, t.Language, t.SafeString(), t.Origin)
}
