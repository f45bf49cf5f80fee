// Package lexer turns source text into tokens for both the markup and the
// preprocessor grammar.
//
// The tokenizer is a byte-level state machine with three modes: symbols
// (the default), quoted literals, and comments. A '#' that is the first
// non-blank byte of a logical line switches the rest of that line to the
// preprocessor grammar; every token is tagged with the grammar that was
// active when it was produced, and tokens whose language the session does
// not accept are dropped.
package lexer

import (
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// Options configures a tokenizer session.
type Options struct {
	// Languages is the set of token languages kept in the output. The zero
	// value selects token.LanguagesFor the provider's file type, or both
	// languages for anonymous providers.
	Languages token.LanguageSet
}

// languagesFor resolves the effective language set for src.
func (o Options) languagesFor(src source.Provider) token.LanguageSet {
	if o.Languages != 0 {
		return o.Languages
	}
	if file, ok := src.(*source.File); ok {
		return token.LanguagesFor(file.Type)
	}
	return token.LanguagesFor(source.FileTypeMarkup)
}

// Tokenize scans the whole of src and returns the accepted tokens in source
// order. The first lexical error aborts the scan.
func Tokenize(src source.Provider, opts Options) ([]token.Token, error) {
	const initialCapacityDivisor = 4 // reasonable initial capacity estimate

	tok := &tokenizer{
		src:    src,
		reader: src.NewReader(),
		accept: opts.languagesFor(src),
		tokens: make([]token.Token, 0, len(src.Text())/initialCapacityDivisor),
	}

	if err := tok.tokenize(); err != nil {
		return nil, err
	}

	return tok.tokens, nil
}

// NewStream tokenizes src and wraps the result in a token.Stream.
func NewStream(src source.Provider, opts Options) (*token.Stream, error) {
	tokens, err := Tokenize(src, opts)
	if err != nil {
		return nil, err
	}
	return token.NewStream(tokens), nil
}
