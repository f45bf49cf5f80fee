package preprocessor

import (
	"strings"

	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/token"
)

// skipContinuations steps over line-continuation tokens.
func skipContinuations(stream *token.Stream) {
	for {
		tok, ok := stream.Current()
		if !ok || !tok.Is(continuation) {
			return
		}
		stream.Advance()
	}
}

// expectEndOfLine consumes the end of the directive's logical line. End of
// input also ends the line.
func expectEndOfLine(stream *token.Stream, keyword token.Token) error {
	skipContinuations(stream)

	tok, ok := stream.Current()
	if !ok {
		return nil
	}
	if !tok.IsEndOfLine() {
		return diag.Directive(diag.ErrMissingEndOfLine, tok.Origin, tok.Text,
			"expected end of line after #%s, found '%s'", keyword.Text, tok.SafeString())
	}

	stream.Advance()
	return nil
}

// voidStatement reads a directive that takes no argument.
func voidStatement(stream *token.Stream, keyword token.Token) error {
	return expectEndOfLine(stream, keyword)
}

// simpleStatement reads a directive that takes exactly one identifier.
func simpleStatement(stream *token.Stream, keyword token.Token) (token.Token, error) {
	skipContinuations(stream)

	arg, ok := stream.Current()
	if !ok || arg.IsEndOfLine() {
		return token.Token{}, argumentError(arg, ok, keyword, "#"+keyword.Text+" expects a macro name")
	}
	if arg.Kind != token.KindSymbol || !IsIdentifier(arg.Text) {
		return token.Token{}, diag.Directive(diag.ErrInvalidArgument, arg.Origin, arg.Text,
			"macro names must be identifiers, found '%s'", arg.SafeString())
	}
	stream.Advance()

	if err := expectEndOfLine(stream, keyword); err != nil {
		return token.Token{}, err
	}
	return arg, nil
}

// restOfLine consumes and returns the tokens up to the end of the logical
// line, without continuations or the line end itself.
func restOfLine(stream *token.Stream) []token.Token {
	var tokens []token.Token
	for {
		tok, ok := stream.Current()
		if !ok {
			return tokens
		}
		stream.Advance()
		if tok.IsEndOfLine() {
			return tokens
		}
		if !tok.Is(continuation) {
			tokens = append(tokens, tok)
		}
	}
}

// parameters reads a macro parameter list after its '('.
func parameters(stream *token.Stream, keyword token.Token) ([]string, error) {
	params := []string{}
	expectName := true

	for {
		skipContinuations(stream)
		tok, ok := stream.Current()
		if !ok || tok.IsEndOfLine() {
			return nil, argumentError(tok, ok, keyword, "missing ')' in macro parameter list")
		}

		switch {
		case tok.Is(")") && (!expectName || len(params) == 0):
			stream.Advance()
			return params, nil
		case tok.Is(",") && !expectName:
			expectName = true
			stream.Advance()
		case expectName && tok.Kind == token.KindSymbol && IsIdentifier(tok.Text):
			params = append(params, tok.Text)
			expectName = false
			stream.Advance()
		case expectName && tok.Is("."):
			if !isEllipsis(stream) {
				return nil, diag.Directive(diag.ErrInvalidArgument, tok.Origin, tok.Text,
					"expected parameter name, found '.'")
			}
			params = append(params, "...")
			expectName = false
			stream.Advance()
			stream.Advance()
			stream.Advance()
		default:
			return nil, diag.Directive(diag.ErrInvalidArgument, tok.Origin, tok.Text,
				"unexpected '%s' in macro parameter list", tok.SafeString())
		}
	}
}

// isEllipsis reports whether the stream is at three adjacent dots.
func isEllipsis(stream *token.Stream) bool {
	first, _ := stream.At(0)
	for i := 1; i < 3; i++ {
		tok, ok := stream.At(i)
		prev, _ := stream.At(i - 1)
		if !ok || !tok.Is(".") || !adjacent(prev, tok) {
			return false
		}
	}
	return first.Is(".")
}

// argumentError reports a missing or malformed argument at tok, or at the
// keyword when the input ended.
func argumentError(tok token.Token, ok bool, keyword token.Token, message string) error {
	if !ok {
		tok = keyword
	}
	return diag.Directive(diag.ErrInvalidArgument, tok.Origin, tok.Text, "%s", message)
}

func joinParams(params []string) string {
	return strings.Join(params, ",")
}
