package token

import (
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/source"
)

// Stream is an ordered token sequence with a read position. Indexing is
// relative to the position.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream wraps tokens. The stream takes ownership of the slice.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Len returns the total number of tokens.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Position returns the index of the current token.
func (s *Stream) Position() int {
	return s.pos
}

// Seek moves the read position to an absolute index in [0, Len()].
func (s *Stream) Seek(pos int) {
	s.pos = max(0, min(pos, len(s.tokens)))
}

// Remaining returns the number of tokens at or after the current position.
func (s *Stream) Remaining() int {
	return len(s.tokens) - s.pos
}

// AtEnd reports whether no token remains.
func (s *Stream) AtEnd() bool {
	return s.pos >= len(s.tokens)
}

// Tokens returns every token regardless of position. Callers must not
// modify the returned slice.
func (s *Stream) Tokens() []Token {
	return s.tokens
}

// At returns the token at position+offset.
func (s *Stream) At(offset int) (Token, bool) {
	idx := s.pos + offset
	if idx < 0 || idx >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[idx], true
}

// Current returns the token at the current position.
func (s *Stream) Current() (Token, bool) {
	return s.At(0)
}

// Next consumes the current token and returns it. At the end of the stream
// it fails with diag.ErrUnexpectedEOF citing the last token's origin.
func (s *Stream) Next() (Token, error) {
	tok, ok := s.At(0)
	if !ok {
		return Token{}, s.eofError()
	}
	s.pos++
	return tok, nil
}

// Advance moves the position forward by one without bounds checking
// beyond clamping at the end.
func (s *Stream) Advance() {
	if s.pos < len(s.tokens) {
		s.pos++
	}
}

// Expect checks that the current token is the Symbol text without consuming
// it. message, if non-empty, replaces the default description.
func (s *Stream) Expect(text, message string) error {
	tok, ok := s.At(0)
	if !ok {
		return s.eofError()
	}
	if tok.Is(text) {
		return nil
	}
	if message == "" {
		message = "expected '" + diag.SafeText(text) + "', found '" + tok.SafeString() + "'"
	}
	return diag.Directive(diag.ErrUnexpectedToken, tok.Origin, tok.Text, "%s", message)
}

// ExpectNext advances one token and then applies Expect.
func (s *Stream) ExpectNext(text, message string) error {
	if s.AtEnd() {
		return s.eofError()
	}
	s.pos++
	return s.Expect(text, message)
}

// eofError cites the last token before the current position.
func (s *Stream) eofError() error {
	var origin source.Origin
	var lexeme string
	if idx := min(s.pos, len(s.tokens)) - 1; idx >= 0 {
		origin = s.tokens[idx].Origin
		lexeme = s.tokens[idx].Text
	}
	return diag.Directive(diag.ErrUnexpectedEOF, origin, lexeme, "unexpected end of input")
}
