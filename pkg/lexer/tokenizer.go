package lexer

import (
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// mode is the tokenizer's current scanning mode.
type mode uint8

const (
	modeSymbol mode = iota
	modeString
	modeComment
)

// tokenizer holds the state of one scan. It is not safe for concurrent use.
type tokenizer struct {
	src    source.Provider
	reader *source.Reader
	accept token.LanguageSet
	tokens []token.Token

	mode         mode
	justSwitched bool

	// Pending multi-byte run (symbol mode) or literal body (string mode).
	buf       []byte
	bufStart  int
	buffering bool

	// Logical line tracking.
	targetingPreprocessor bool
	seenContent           bool
	lastContent           byte

	// String mode.
	closing     byte
	openOffset  int
	escaping    bool
	literalLang token.Language

	// Comment mode.
	lineComment   bool
	commentOffset int
}

// tokenize runs the state machine until the input is exhausted.
func (t *tokenizer) tokenize() error {
	for {
		var more bool
		var err error

		switch t.mode {
		case modeSymbol:
			more = t.stepSymbol()
		case modeString:
			more, err = t.stepString()
		case modeComment:
			more, err = t.stepComment()
		}

		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	t.flush()
	return nil
}

// language returns the grammar tokens are currently tagged with.
func (t *tokenizer) language() token.Language {
	if t.targetingPreprocessor {
		return token.LanguagePreprocessor
	}
	return token.LanguageMarkup
}

// emit appends a token if its language is accepted.
func (t *tokenizer) emit(text string, offset int, kind token.Kind, lang token.Language) {
	if !t.accept.Has(lang) {
		return
	}
	t.tokens = append(t.tokens, token.Token{
		Text:     text,
		Kind:     kind,
		Language: lang,
		Origin:   source.At(t.src, offset),
	})
}

// emitSymbol emits a Symbol in the current language.
func (t *tokenizer) emitSymbol(text string, offset int) {
	t.emit(text, offset, token.KindSymbol, t.language())
}

// buffer appends a byte to the pending run, recording where it started.
func (t *tokenizer) buffer(char byte, offset int) {
	if !t.buffering {
		t.buffering = true
		t.bufStart = offset
		t.buf = t.buf[:0]
	}
	t.buf = append(t.buf, char)
}

// flush emits the pending run, if any, as a Symbol.
func (t *tokenizer) flush() {
	if !t.buffering {
		return
	}
	t.emitSymbol(string(t.buf), t.bufStart)
	t.buffering = false
	t.buf = t.buf[:0]
}

// switchMode enters a new mode and rewinds so the mode's handler reads its
// own opening delimiter.
func (t *tokenizer) switchMode(next mode, rewind int) {
	t.mode = next
	t.justSwitched = true
	_, _ = t.reader.Rewind(rewind)
}

// stepSymbol consumes one byte in symbol mode. It returns false at end of
// input.
func (t *tokenizer) stepSymbol() bool {
	char, err := t.reader.Read(0)
	if err != nil {
		return false
	}
	offset := t.reader.Offset() - 1

	if char == '\n' {
		t.flush()
		t.endLine(offset)
		return true
	}

	if isSpace(char) {
		t.flush()
		return true
	}

	if char == '/' && (t.reader.LookAheadForChar('/', 0) || t.reader.LookAheadForChar('*', 0)) {
		t.flush()
		t.switchMode(modeComment, 1)
		return true
	}

	if char == '#' {
		if !t.seenContent {
			t.targetingPreprocessor = true
		}
	} else {
		t.seenContent = true
		t.lastContent = char
	}

	switch {
	case char == '"' || char == '\'' || (char == '<' && t.targetingPreprocessor):
		t.flush()
		t.emitSymbol(string(char), offset)
		t.switchMode(modeString, 1)
	case isSimple(char):
		t.flush()
		t.emitSymbol(string(char), offset)
	default:
		t.buffer(char, offset)
	}

	return true
}

// endLine handles a line feed read in symbol mode.
func (t *tokenizer) endLine(offset int) {
	if t.lastContent == '\\' {
		// Continuation: the logical line goes on, but a second newline
		// right after must end it.
		t.lastContent = 0
		return
	}

	t.emit(token.EndOfLine, offset, token.KindSymbol, token.LanguagePreprocessor)

	t.targetingPreprocessor = false
	t.seenContent = false
	t.lastContent = 0
}

// stepString consumes one byte inside a quoted literal.
func (t *tokenizer) stepString() (bool, error) {
	char, err := t.reader.Read(0)
	offset := t.reader.Offset() - 1

	if err != nil {
		return false, diag.Lexical(diag.ErrUnterminatedString, source.At(t.src, t.openOffset),
			string(t.closingOpener()), "unterminated string literal; expected closing '%c'", t.closing)
	}

	if t.justSwitched {
		t.justSwitched = false
		t.closing = char
		if char == '<' {
			t.closing = '>'
		}
		t.openOffset = offset
		t.literalLang = t.language()
		t.buf = t.buf[:0]
		t.bufStart = offset + 1
		return true, nil
	}

	if t.escaping {
		t.escaping = false
		t.buf = append(t.buf, unescape(char))
		return true, nil
	}

	switch char {
	case '\\':
		t.escaping = true
	case t.closing:
		t.emit(string(t.buf), t.bufStart, token.KindStringLiteral, t.literalLang)
		t.buf = t.buf[:0]
		t.emit(string(char), offset, token.KindSymbol, t.literalLang)
		t.mode = modeSymbol
	default:
		t.buf = append(t.buf, char)
	}

	return true, nil
}

// closingOpener returns the opening delimiter matching t.closing.
func (t *tokenizer) closingOpener() byte {
	if t.closing == '>' {
		return '<'
	}
	return t.closing
}

// stepComment consumes one byte inside a comment.
func (t *tokenizer) stepComment() (bool, error) {
	if t.justSwitched {
		t.justSwitched = false
		t.commentOffset = t.reader.Offset()
		_, _ = t.reader.Read(0)
		second, _ := t.reader.Read(0)
		t.lineComment = second == '/'
		return true, nil
	}

	if t.lineComment {
		// The terminating line feed is left for symbol mode.
		if t.reader.AtEnd() || t.reader.LookAheadForChar('\n', 0) {
			t.mode = modeSymbol
			return !t.reader.AtEnd(), nil
		}
		_, _ = t.reader.Read(0)
		return true, nil
	}

	char, err := t.reader.Read(0)
	if err != nil {
		return false, diag.Lexical(diag.ErrUnterminatedComment, source.At(t.src, t.commentOffset),
			"/*", "unterminated comment; expected '*/'")
	}

	// The opener's '*' is at commentOffset+1, so "/*/" does not close.
	if char == '/' && t.reader.Offset()-2 > t.commentOffset+1 && t.reader.LookBehindForSequence("*/", 0) {
		t.mode = modeSymbol
	}

	return true, nil
}

// unescape maps the byte after a backslash to its value.
func unescape(char byte) byte {
	switch char {
	case 't':
		return '\t'
	case 'n':
		return '\n'
	default:
		// \" \' \\ and unknown escapes all yield the escaped byte itself.
		return char
	}
}

// isSpace reports whether char is ASCII whitespace.
func isSpace(char byte) bool {
	switch char {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// isSimple reports whether char is a single-byte punctuation token: ASCII,
// not a letter or digit, and not an underscore.
func isSimple(char byte) bool {
	if char >= 0x80 || char == '_' {
		return false
	}
	switch {
	case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z', char >= '0' && char <= '9':
		return false
	default:
		return true
	}
}
