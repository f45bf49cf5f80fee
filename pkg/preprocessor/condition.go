package preprocessor

import (
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// condTerm is an operand tree built while matching. Nodes are created only
// after the whole condition matched, so discarded alternatives never attach
// children to a parsetree parent.
type condTerm struct {
	name     string // NameDefinedCheck, NameIdentifier, NameNumber, NameUnaryOperation or NameBinaryOperation
	text     string
	unary    UnaryOperator
	binary   BinaryOperator
	origin   source.Origin
	operands []*condTerm
}

func (c *condTerm) node() *parsetree.Node {
	switch c.name {
	case NameDefinedCheck:
		return NewDefinedCheck(c.origin, c.text)
	case NameIdentifier:
		return NewIdentifier(c.origin, c.text)
	case NameNumber:
		return NewNumber(c.origin, c.text)
	case NameUnaryOperation:
		un := NewUnaryOperation(c.unary, c.origin)
		un.SetOperand(c.operands[0].node())
		return un.Node
	default:
		bin := NewBinaryOperation(c.binary, c.origin)
		bin.SetLeft(c.operands[0].node())
		bin.SetRight(c.operands[1].node())
		return bin.Node
	}
}

// condEntity is the value carried by each combinator token: the source
// token while matching terminals, the built term afterwards.
type condEntity struct {
	tok  token.Token
	term *condTerm
}

type condParser = pc.Parser[condEntity]

type condToken = pc.Token[condEntity]

// binaryLevels lists binary operators from loosest to tightest binding.
//
//nolint:gochecknoglobals // Read-only lookup table.
var binaryLevels = []struct {
	text string
	op   BinaryOperator
}{
	{"||", LogicalOr},
	{"&&", LogicalAnd},
	{"|", BitwiseOr},
	{"^", BitwiseXor},
	{"&", BitwiseAnd},
	{">>", BitwiseRightShift},
}

// operators that may span two adjacent single-byte tokens.
//
//nolint:gochecknoglobals // Read-only lookup table.
var doubleOperators = map[string]bool{"||": true, "&&": true, ">>": true}

//nolint:gochecknoglobals // Built once, stateless.
var conditionGrammar = newConditionGrammar()

// buildCondition records the raw text of tokens on expr and, when the
// condition fits the structured grammar, attaches its operand tree.
// Conditions are never evaluated.
func buildCondition(expr Expression, tokens []token.Token) {
	expr.SetAttribute(AttrText, joinTokens(tokens))

	input := make([]condToken, len(tokens))
	for i, tok := range tokens {
		input[i] = condToken{
			Type: tok.Kind.String(),
			Pos:  &pc.Pos{Index: tok.Origin.Offset},
			Val:  condEntity{tok: tok},
			Raw:  tok.Text,
		}
	}

	pctx := pc.NewParseContext[condEntity]()
	_, parsed, err := conditionGrammar(pctx, input)
	if err != nil || len(parsed) == 0 || parsed[0].Val.term == nil {
		return
	}
	expr.SetOperand(parsed[0].Val.term.node())
}

// newConditionGrammar builds
//
//	condition := level0 EOS
//	levelN    := levelN+1 (op_N levelN+1)*
//	unary     := ("!" | "~") unary | primary
//	primary   := "(" level0 ")" | defined | identifier | number
//	defined   := "defined" "(" identifier ")" | "defined" identifier
func newConditionGrammar() condParser {
	var expression condParser
	lazyExpression := pc.Lazy(func() condParser { return expression })

	defined := pc.Trans(
		pc.Or(
			pc.Seq(symbol("defined"), symbol("("), identifier(), symbol(")")),
			pc.Seq(symbol("defined"), identifier()),
		),
		func(_ *pc.ParseContext[condEntity], tokens []condToken) ([]condToken, error) {
			name := tokens[1]
			if len(tokens) == 4 {
				name = tokens[2]
			}
			return term(tokens[0], &condTerm{name: NameDefinedCheck, text: name.Val.tok.Text}), nil
		},
	)

	primary := pc.Or(
		pc.Trans(
			pc.Seq(symbol("("), lazyExpression, symbol(")")),
			func(_ *pc.ParseContext[condEntity], tokens []condToken) ([]condToken, error) {
				return tokens[1:2], nil
			},
		),
		defined,
		leaf(identifier(), NameIdentifier),
		leaf(number(), NameNumber),
	)

	var unary condParser
	unary = pc.Or(
		pc.Trans(
			pc.Seq(pc.Or(operator("!"), operator("~")), pc.Lazy(func() condParser { return unary })),
			func(_ *pc.ParseContext[condEntity], tokens []condToken) ([]condToken, error) {
				op := BitwiseNot
				if tokens[0].Val.tok.Text == "!" {
					op = LogicalNot
				}
				return term(tokens[0], &condTerm{
					name:     NameUnaryOperation,
					unary:    op,
					operands: []*condTerm{tokens[1].Val.term},
				}), nil
			},
		),
		primary,
	)

	level := unary
	for i := len(binaryLevels) - 1; i >= 0; i-- {
		level = leftAssociative(level, binaryLevels[i].text, binaryLevels[i].op)
	}
	expression = level

	return pc.Trans(
		pc.Seq(expression, pc.EOS[condEntity]()),
		func(_ *pc.ParseContext[condEntity], tokens []condToken) ([]condToken, error) {
			return tokens[:1], nil
		},
	)
}

// leftAssociative matches operand (op operand)* and folds it to the left.
func leftAssociative(operand condParser, text string, op BinaryOperator) condParser {
	return pc.Trans(
		pc.Seq(operand, pc.ZeroOrMore(text, pc.Seq(operator(text), operand))),
		func(_ *pc.ParseContext[condEntity], tokens []condToken) ([]condToken, error) {
			left := tokens[0]
			for i := 1; i+1 < len(tokens); i += 2 {
				left = term(left, &condTerm{
					name:     NameBinaryOperation,
					binary:   op,
					origin:   tokens[i].Val.tok.Origin,
					operands: []*condTerm{left.Val.term, tokens[i+1].Val.term},
				})[0]
			}
			return []condToken{left}, nil
		},
	)
}

// term wraps t as the single output token, positioned at at. Terms
// without an origin take the origin of at.
func term(at condToken, t *condTerm) []condToken {
	if t.origin.Source == nil {
		t.origin = at.Val.tok.Origin
	}
	return []condToken{{Type: t.name, Pos: at.Pos, Val: condEntity{tok: at.Val.tok, term: t}, Raw: at.Raw}}
}

func leaf(p condParser, name string) condParser {
	return pc.Trans(p, func(_ *pc.ParseContext[condEntity], tokens []condToken) ([]condToken, error) {
		return term(tokens[0], &condTerm{name: name, text: tokens[0].Val.tok.Text}), nil
	})
}

// terminal matches one symbol token accepted by match.
func terminal(match func(token.Token) bool) condParser {
	return func(_ *pc.ParseContext[condEntity], tokens []condToken) (int, []condToken, error) {
		if len(tokens) > 0 && tokens[0].Val.tok.Kind == token.KindSymbol && match(tokens[0].Val.tok) {
			return 1, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

func symbol(text string) condParser {
	return terminal(func(tok token.Token) bool { return tok.Text == text })
}

// identifier excludes "defined" so that a bare keyword stays unstructured.
func identifier() condParser {
	return terminal(func(tok token.Token) bool { return tok.Text != "defined" && IsIdentifier(tok.Text) })
}

func number() condParser {
	return terminal(func(tok token.Token) bool { return isNumber(tok.Text) })
}

// operator matches text as the longest operator at the head of tokens, so
// "|" never matches the first half of "||". Two-byte operators consume two
// adjacent tokens and yield the first.
func operator(text string) condParser {
	return func(_ *pc.ParseContext[condEntity], tokens []condToken) (int, []condToken, error) {
		if got, width := operatorAt(tokens); got == text {
			return width, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

func operatorAt(tokens []condToken) (string, int) {
	if len(tokens) == 0 {
		return "", 0
	}
	first := tokens[0].Val.tok
	if first.Kind != token.KindSymbol || len(first.Text) != 1 {
		return "", 0
	}
	if len(tokens) > 1 {
		second := tokens[1].Val.tok
		if second.Kind == token.KindSymbol && adjacent(first, second) && doubleOperators[first.Text+second.Text] {
			return first.Text + second.Text, 2
		}
	}
	return first.Text, 1
}

// isNumber reports whether s looks like an integer literal, suffixes and
// hex digits included.
func isNumber(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	for i := range len(s) {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// adjacent reports whether b starts exactly where a ends. Literal bodies
// are always adjacent to their delimiters.
func adjacent(a, b token.Token) bool {
	if a.Kind == token.KindStringLiteral || b.Kind == token.KindStringLiteral {
		return true
	}
	return a.Origin.Source == b.Origin.Source && a.Origin.Offset+len(a.Text) == b.Origin.Offset
}

// joinTokens reconstructs source text from tokens, with a single space
// wherever the source had a gap.
func joinTokens(tokens []token.Token) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 && !adjacent(tokens[i-1], tok) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Text)
	}
	return sb.String()
}
