package source

import (
	"sort"
	"strings"
)

// BuildLineOffsets returns the byte offset of every '\n' in content, in
// ascending order. CRLF endings need no special handling because the '\r'
// is simply the last byte of its line.
func BuildLineOffsets(content string) []int {
	offsets := make([]int, 0, strings.Count(content, "\n"))
	for idx := 0; idx < len(content); idx++ {
		if content[idx] == '\n' {
			offsets = append(offsets, idx)
		}
	}
	return offsets
}

// LineColumn converts a byte offset to 1-based line and column numbers using
// a newline offset table. Columns count bytes from the start of the line;
// tabs are not expanded. A newline byte belongs to the line it terminates.
func LineColumn(newlines []int, offset int) (int, int) {
	if offset < 0 {
		return 1, 1
	}

	// Number of newlines strictly before offset.
	idx := sort.Search(len(newlines), func(i int) bool {
		return newlines[i] >= offset
	})

	lineStart := 0
	if idx > 0 {
		lineStart = newlines[idx-1] + 1
	}

	return idx + 1, offset - lineStart + 1
}

// LineCount returns the number of lines in the provider's text. Empty text
// has one (empty) line.
func LineCount(p Provider) int {
	return len(p.LineOffsets()) + 1
}

// LineText returns the content of a 1-based line, excluding its terminator.
// It returns "" if the line is out of range.
func LineText(p Provider, line int) string {
	newlines := p.LineOffsets()
	if line < 1 || line > len(newlines)+1 {
		return ""
	}

	content := p.Text()

	start := 0
	if line > 1 {
		start = newlines[line-2] + 1
	}

	end := len(content)
	if line <= len(newlines) {
		end = newlines[line-1]
	}

	return strings.TrimSuffix(content[start:end], "\r")
}
