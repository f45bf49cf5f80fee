package source

import "errors"

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrOutOfBounds indicates a read or seek at or past the end of the text.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrReadFailed indicates a read that failed for any other reason, such
	// as a position before the start of the text.
	ErrReadFailed = errors.New("read failed")
)

// Reader is a rewindable cursor over a Provider's text. The cursor always
// points at the next byte to be read.
//
// A Reader is not safe for concurrent use; obtain one per goroutine via
// Provider.NewReader.
type Reader struct {
	source Provider
	text   string
	cursor int
}

func newReader(p Provider) *Reader {
	return &Reader{source: p, text: p.Text()}
}

// Source returns the provider the reader walks.
func (r *Reader) Source() Provider {
	return r.source
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.cursor
}

// Len returns the length of the underlying text.
func (r *Reader) Len() int {
	return len(r.text)
}

// Origin returns the origin of the byte at cursor+offset.
func (r *Reader) Origin(offset int) Origin {
	return Origin{Source: r.source, Offset: r.cursor + offset}
}

// Peek returns the byte at cursor+offset without moving the cursor.
func (r *Reader) Peek(offset int) (byte, error) {
	pos := r.cursor + offset
	switch {
	case pos >= len(r.text):
		return 0, ErrOutOfBounds
	case pos < 0:
		return 0, ErrReadFailed
	}
	return r.text[pos], nil
}

// Read returns the byte at cursor+offset and advances the cursor by
// offset+1, whether or not the read succeeded.
func (r *Reader) Read(offset int) (byte, error) {
	char, err := r.Peek(offset)
	r.cursor += offset + 1
	return char, err
}

// Rewind moves the cursor back by offset and returns the byte now under it.
func (r *Reader) Rewind(offset int) (byte, error) {
	char, err := r.Peek(-offset)
	r.cursor -= offset
	return char, err
}

// LookAheadForChar reports whether the byte at cursor+offset is char.
// Out-of-range positions never match.
func (r *Reader) LookAheadForChar(char byte, offset int) bool {
	got, err := r.Peek(offset)
	return err == nil && got == char
}

// LookBehindForChar reports whether the byte at cursor-1+offset is char,
// that is, whether the most recently read byte matches when offset is 0.
func (r *Reader) LookBehindForChar(char byte, offset int) bool {
	return r.LookAheadForChar(char, -1+offset)
}

// LookAheadForSequence reports whether seq starts at cursor+offset.
func (r *Reader) LookAheadForSequence(seq string, offset int) bool {
	start := r.cursor + offset
	if start < 0 || start+len(seq) > len(r.text) {
		return false
	}
	return r.text[start:start+len(seq)] == seq
}

// LookBehindForSequence reports whether seq ends just before cursor+offset.
func (r *Reader) LookBehindForSequence(seq string, offset int) bool {
	return r.LookAheadForSequence(seq, -len(seq)+offset)
}

// SetCursor moves the cursor to an absolute position. Seeking to the end of
// the text is allowed; seeking past it is not.
func (r *Reader) SetCursor(pos int) error {
	if pos > len(r.text) {
		return ErrOutOfBounds
	}
	if pos < 0 {
		return ErrReadFailed
	}
	r.cursor = pos
	return nil
}

// Reset moves the cursor back to the start of the text.
func (r *Reader) Reset() {
	r.cursor = 0
}

// AtEnd reports whether every byte has been consumed.
func (r *Reader) AtEnd() bool {
	return r.cursor >= len(r.text)
}
