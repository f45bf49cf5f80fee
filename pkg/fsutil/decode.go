package fsutil

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names reported by DetectEncoding.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding names the encoding selected by content's byte-order mark.
// Content without a mark is reported as plain UTF-8.
func DetectEncoding(content []byte) string {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	default:
		return EncodingUTF8
	}
}

// DecodeText converts raw source bytes to UTF-8 text. A UTF-8 or UTF-16
// byte-order mark selects the decoding and is dropped; content without a
// mark passes through byte for byte.
func DecodeText(content []byte) (string, error) {
	decoder := unicode.BOMOverride(transform.Nop)

	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}

	return string(out), nil
}
