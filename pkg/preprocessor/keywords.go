package preprocessor

// KeywordClass classifies a directive keyword.
type KeywordClass uint8

const (
	// KeywordInvalid is any keyword not in the table.
	KeywordInvalid KeywordClass = iota
	// KeywordSupported keywords are parsed into tree nodes.
	KeywordSupported
	// KeywordUnsupported keywords are recognized but rejected in markup files.
	KeywordUnsupported
	// KeywordPreprocessorOnly keywords are legal only in header files, where
	// they are ignored.
	KeywordPreprocessorOnly
)

// String returns the class name.
func (c KeywordClass) String() string {
	switch c {
	case KeywordSupported:
		return "supported"
	case KeywordUnsupported:
		return "unsupported"
	case KeywordPreprocessorOnly:
		return "preprocessor-only"
	default:
		return "invalid"
	}
}

var keywordTable = map[string]KeywordClass{
	"if":      KeywordSupported,
	"ifdef":   KeywordSupported,
	"ifndef":  KeywordSupported,
	"elif":    KeywordSupported,
	"else":    KeywordSupported,
	"endif":   KeywordSupported,
	"define":  KeywordSupported,
	"undef":   KeywordSupported,
	"include": KeywordSupported,
	"pragma":  KeywordSupported,
	"error":   KeywordSupported,

	"import": KeywordUnsupported,
	"line":   KeywordUnsupported,
	"using":  KeywordUnsupported,

	"warning":      KeywordPreprocessorOnly,
	"ident":        KeywordPreprocessorOnly,
	"sccs":         KeywordPreprocessorOnly,
	"assert":       KeywordPreprocessorOnly,
	"unassert":     KeywordPreprocessorOnly,
	"include_next": KeywordPreprocessorOnly,
}

// ClassifyKeyword returns the class of a directive keyword. Matching is
// case-sensitive.
func ClassifyKeyword(keyword string) KeywordClass {
	return keywordTable[keyword]
}

// IsIdentifier reports whether s is a valid macro name: a letter or
// underscore followed by letters, digits, or underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
