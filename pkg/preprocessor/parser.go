// Package preprocessor parses C preprocessor directives into a parse tree.
//
// The parser walks a token stream and turns every directive into nodes
// under a World root. Conditional blocks nest: directives between #if and
// its #else are children of the If node. Conditions are parsed into
// operand trees where possible and never evaluated; macros are recorded in
// a Defines table and never expanded.
package preprocessor

import (
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// continuation is the line-continuation token, skipped inside directives.
const continuation = "\\"

// Parser builds a parse tree from the directives of one source. It is not
// safe for concurrent use.
type Parser struct {
	src      source.Provider
	markup   bool
	defines  *Defines
	world    *parsetree.Node
	current  *parsetree.Node
	scopes   []If
	warnings []*diag.Error

	directives int
	pragmaOnce bool
}

// New creates a parser for src. Directives restricted to header files are
// rejected when src is a markup file. defines may be nil.
func New(src source.Provider, defines *Defines) *Parser {
	if defines == nil {
		defines = NewDefines()
	}

	world := parsetree.NewWorld(source.At(src, 0))

	markup := false
	if file, ok := src.(*source.File); ok {
		markup = file.Type == source.FileTypeMarkup
	}

	return &Parser{
		src:     src,
		markup:  markup,
		defines: defines,
		world:   world,
		current: world,
	}
}

// World returns the root of the tree.
func (p *Parser) World() *parsetree.Node {
	return p.world
}

// Current returns the node new directives are appended to.
func (p *Parser) Current() *parsetree.Node {
	return p.current
}

// Defines returns the session's macro table.
func (p *Parser) Defines() *Defines {
	return p.defines
}

// Warnings returns the non-fatal notes collected so far.
func (p *Parser) Warnings() []*diag.Error {
	return p.warnings
}

// Directives returns the number of directives parsed.
func (p *Parser) Directives() int {
	return p.directives
}

// PragmaOnce reports whether the source contained #pragma once.
func (p *Parser) PragmaOnce() bool {
	return p.pragmaOnce
}

// OpenConditionals returns the number of conditionals still awaiting
// #endif.
func (p *Parser) OpenConditionals() int {
	return len(p.scopes)
}

// Parse consumes the whole stream, parsing every directive. A conditional
// still open at the end is an error citing its opening directive. The
// World is returned even on error, complete up to the failure.
func (p *Parser) Parse(stream *token.Stream) (*parsetree.Node, error) {
	for !stream.AtEnd() {
		tok, _ := stream.Current()
		if tok.Language != token.LanguagePreprocessor || !tok.Is("#") {
			stream.Advance()
			continue
		}

		if _, err := p.ParseDirective(stream); err != nil {
			return p.world, err
		}
	}

	if len(p.scopes) > 0 {
		open := p.scopes[len(p.scopes)-1]
		return p.world, diag.Directive(diag.ErrUnterminatedConditional, open.Origin(), "#"+open.Directive(),
			"unterminated #%s; expected #endif", open.Directive())
	}

	return p.world, nil
}

// ParseDirective parses one directive. The stream must be positioned at
// its '#' token; on success it is left after the directive's end of line.
// The returned node is the one the directive created or closed, or nil for
// directives that produce no node.
func (p *Parser) ParseDirective(stream *token.Stream) (*parsetree.Node, error) {
	hash, ok := stream.Current()
	if !ok {
		return nil, diag.Internal(source.At(p.src, 0), "directive parser invoked at end of input")
	}
	if !hash.Is("#") {
		return nil, diag.Internal(hash.Origin, "directive parser invoked at '%s' instead of '#'", hash.SafeString())
	}
	stream.Advance()

	skipContinuations(stream)
	keyword, ok := stream.Current()
	if !ok || keyword.IsEndOfLine() {
		// Null directive.
		stream.Advance()
		return nil, nil
	}

	class := ClassifyKeyword(keyword.Text)
	if keyword.Kind != token.KindSymbol {
		class = KeywordInvalid
	}

	if class != KeywordSupported {
		return nil, p.disallowed(stream, keyword, class)
	}

	stream.Advance()
	p.directives++
	return p.dispatch(stream, hash, keyword)
}

// disallowed applies the policy for keywords that are not parsed: an error
// in markup files, an ignored line and a warning in headers.
func (p *Parser) disallowed(stream *token.Stream, keyword token.Token, class KeywordClass) error {
	var err *diag.Error
	switch class {
	case KeywordUnsupported:
		err = diag.Newf(diag.CategoryDirective, diag.ErrUnsupportedDirective, keyword.Origin, keyword.Text,
			"#%s is not supported", keyword.SafeString())
	case KeywordPreprocessorOnly:
		err = diag.Newf(diag.CategoryDirective, diag.ErrHeaderOnlyDirective, keyword.Origin, keyword.Text,
			"#%s is only supported in header files, where it is simply ignored", keyword.SafeString())
	default:
		err = diag.Newf(diag.CategoryDirective, diag.ErrUnknownDirective, keyword.Origin, keyword.Text,
			"unknown preprocessor command '%s'", keyword.SafeString())
	}

	if p.markup {
		return err
	}

	err.Severity = diag.SeverityWarning
	err.Message = "ignored: " + err.Message
	p.warnings = append(p.warnings, err)
	restOfLine(stream)
	return nil
}

func (p *Parser) dispatch(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	switch keyword.Text {
	case "if":
		return p.parseIf(stream, hash, keyword)
	case "ifdef", "ifndef":
		return p.parseIfdef(stream, hash, keyword)
	case "elif":
		return p.parseElif(stream, hash, keyword)
	case "else":
		return p.parseElse(stream, hash, keyword)
	case "endif":
		return p.parseEndif(stream, keyword)
	case "define":
		return p.parseDefine(stream, hash, keyword)
	case "undef":
		return p.parseUndef(stream, hash, keyword)
	case "include":
		return p.parseInclude(stream, hash, keyword)
	case "pragma":
		return p.parsePragma(stream, hash)
	case "error":
		return p.parseError(stream, hash)
	default:
		return nil, diag.Internal(keyword.Origin, "no parser for supported directive #%s", keyword.SafeString())
	}
}

// open appends an If to the current node and enters its scope.
func (p *Parser) open(ifNode If) *parsetree.Node {
	parsetree.AppendChild(p.current, ifNode.Node)
	p.scopes = append(p.scopes, ifNode)
	p.current = ifNode.Node
	return ifNode.Node
}

// innermost returns the innermost open conditional.
func (p *Parser) innermost() (If, bool) {
	if len(p.scopes) == 0 {
		return If{}, false
	}
	return p.scopes[len(p.scopes)-1], true
}

func (p *Parser) parseIf(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	condition, err := p.condition(stream, keyword)
	if err != nil {
		return nil, err
	}

	ifNode := NewIf(hash.Origin, keyword.Text)
	buildCondition(ifNode.Expression(), condition)
	return p.open(ifNode), nil
}

func (p *Parser) parseIfdef(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	name, err := simpleStatement(stream, keyword)
	if err != nil {
		return nil, err
	}

	operand := NewDefinedCheck(name.Origin, name.Text)
	if keyword.Text == "ifndef" {
		not := NewUnaryOperation(LogicalNot, keyword.Origin)
		not.SetOperand(operand)
		operand = not.Node
	}

	ifNode := NewIf(hash.Origin, keyword.Text)
	ifNode.Expression().SetOperand(operand)
	return p.open(ifNode), nil
}

func (p *Parser) parseElif(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	ifNode, ok := p.innermost()
	if !ok || ifNode.Node != p.current {
		msg := "unexpected #elif outside of #if"
		if ok {
			msg = "unexpected #elif after #else"
		}
		return nil, diag.Directive(diag.ErrUnexpectedElif, keyword.Origin, keyword.Text, "%s", msg)
	}

	condition, err := p.condition(stream, keyword)
	if err != nil {
		return nil, err
	}

	elif := ifNode.AddElif(hash.Origin)
	buildCondition(elif.Expression(), condition)
	return elif.Node, nil
}

func (p *Parser) parseElse(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	ifNode, ok := p.innermost()
	if !ok || ifNode.Node != p.current {
		msg := "unexpected #else outside of #if"
		if ok {
			msg = "unexpected #else after #else"
		}
		return nil, diag.Directive(diag.ErrUnexpectedElse, keyword.Origin, keyword.Text, "%s", msg)
	}

	if err := voidStatement(stream, keyword); err != nil {
		return nil, err
	}

	parent := ifNode.Parent()
	if parent == nil {
		return nil, diag.Internal(ifNode.Origin(), "#%s block has no parent", ifNode.Directive())
	}

	p.current = parent
	return ifNode.AddElse(hash.Origin), nil
}

func (p *Parser) parseEndif(stream *token.Stream, keyword token.Token) (*parsetree.Node, error) {
	ifNode, ok := p.innermost()
	if !ok {
		return nil, diag.Directive(diag.ErrUnexpectedEndif, keyword.Origin, keyword.Text,
			"unexpected #endif outside of #if")
	}

	if err := voidStatement(stream, keyword); err != nil {
		return nil, err
	}

	parent := ifNode.Parent()
	if parent == nil {
		return nil, diag.Internal(ifNode.Origin(), "#%s block has no parent", ifNode.Directive())
	}

	p.scopes = p.scopes[:len(p.scopes)-1]
	p.current = parent
	return ifNode.Node, nil
}

func (p *Parser) parseDefine(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	skipContinuations(stream)
	name, ok := stream.Current()
	if !ok || name.IsEndOfLine() || name.Kind != token.KindSymbol || !IsIdentifier(name.Text) {
		return nil, argumentError(name, ok, keyword, "#define expects a macro name")
	}
	stream.Advance()

	macro := Macro{Name: name.Text, Origin: hash.Origin}

	// A '(' touching the name starts a parameter list.
	if open, ok := stream.Current(); ok && open.Is("(") && adjacent(name, open) {
		stream.Advance()
		params, err := parameters(stream, keyword)
		if err != nil {
			return nil, err
		}
		macro.FunctionLike = true
		macro.Parameters = params
	}

	macro.Value = joinTokens(restOfLine(stream))
	p.defines.Define(macro)

	n := newStatement(NameDefine, hash.Origin, AttrName, macro.Name, AttrValue, macro.Value)
	if macro.FunctionLike {
		n.SetAttribute(AttrParameters, joinParams(macro.Parameters))
	}
	parsetree.AppendChild(p.current, n)
	return n, nil
}

func (p *Parser) parseUndef(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	name, err := simpleStatement(stream, keyword)
	if err != nil {
		return nil, err
	}

	p.defines.Undefine(name.Text)

	undef := NewUndef(hash.Origin, name.Text)
	parsetree.AppendChild(p.current, undef.Node)
	return undef.Node, nil
}

func (p *Parser) parseInclude(stream *token.Stream, hash, keyword token.Token) (*parsetree.Node, error) {
	const usage = "#include expects \"FILE\" or <FILE>"

	skipContinuations(stream)
	open, ok := stream.Current()
	if !ok || !(open.Is(`"`) || open.Is("<")) {
		return nil, argumentError(open, ok, keyword, usage)
	}

	path, ok := stream.At(1)
	if !ok || path.Kind != token.KindStringLiteral {
		return nil, argumentError(open, true, keyword, usage)
	}
	if path.Text == "" {
		return nil, diag.Directive(diag.ErrInvalidArgument, path.Origin, path.Text, "empty filename in #include")
	}
	stream.Advance()
	stream.Advance()
	stream.Advance() // closing delimiter

	if err := expectEndOfLine(stream, keyword); err != nil {
		return nil, err
	}

	style := IncludeQuoted
	if open.Is("<") {
		style = IncludeSystem
	}

	n := newStatement(NameInclude, hash.Origin, AttrPath, path.Text, AttrStyle, style)
	parsetree.AppendChild(p.current, n)
	return n, nil
}

func (p *Parser) parsePragma(stream *token.Stream, hash token.Token) (*parsetree.Node, error) {
	text := joinTokens(restOfLine(stream))
	if text == "once" {
		p.pragmaOnce = true
	}

	n := newStatement(NamePragma, hash.Origin, AttrText, text)
	parsetree.AppendChild(p.current, n)
	return n, nil
}

func (p *Parser) parseError(stream *token.Stream, hash token.Token) (*parsetree.Node, error) {
	n := newStatement(NameError, hash.Origin, AttrMessage, joinTokens(restOfLine(stream)))
	parsetree.AppendChild(p.current, n)
	return n, nil
}

// condition collects the tokens of an #if or #elif condition.
func (p *Parser) condition(stream *token.Stream, keyword token.Token) ([]token.Token, error) {
	tokens := restOfLine(stream)
	if len(tokens) == 0 {
		return nil, diag.Directive(diag.ErrInvalidArgument, keyword.Origin, keyword.Text,
			"#%s with no expression", keyword.Text)
	}
	return tokens, nil
}
