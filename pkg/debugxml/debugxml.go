// Package debugxml renders token streams and parse trees as XML for
// inspecting what the front end produced.
package debugxml

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"

	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/source"
	"github.com/yaklabco/duic/pkg/token"
)

// indentSpaces is the indentation of written documents.
const indentSpaces = 2

// Tokens builds a TokenStream element with one Token child per token.
func Tokens(tokens []token.Token) *etree.Element {
	root := etree.NewElement("TokenStream")
	for _, tok := range tokens {
		root.AddChild(Token(tok))
	}
	return root
}

// Token builds the element for a single token. NUL and line-feed lexemes
// are written as a SpecialValue attribute instead of text.
func Token(tok token.Token) *etree.Element {
	el := etree.NewElement("Token")
	el.CreateAttr("NativeClassName", "Token")
	setOrigin(el, tok.Origin)
	el.CreateAttr("TokenType", tok.Kind.String())
	el.CreateAttr("TokenLanguage", tok.Language.String())

	switch tok.Text {
	case "\x00":
		el.CreateAttr("SpecialValue", "Null")
	case token.EndOfLine:
		el.CreateAttr("SpecialValue", "NewLine")
	default:
		el.SetText(tok.Text)
	}

	return el
}

// Tree builds a ParseNode element for root and its descendants.
func Tree(root *parsetree.Node) *etree.Element {
	el := etree.NewElement("ParseNode")
	el.CreateAttr("Name", root.Name())
	setOrigin(el, root.Origin())

	if keys := root.AttributeKeys(); len(keys) > 0 {
		attrs := el.CreateElement("Attributes")
		for _, key := range keys {
			value, _ := root.Attribute(key)
			attrs.CreateElement("ParseNodeAttribute").CreateAttr(key, value)
		}
	}

	if root.HasChildren() {
		children := el.CreateElement("Children")
		for _, child := range root.Children() {
			children.AddChild(Tree(child))
		}
	}

	return el
}

// Write writes el as an indented XML document.
func Write(w io.Writer, el *etree.Element) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(el)
	doc.Indent(indentSpaces)

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing debug xml: %w", err)
	}
	return nil
}

// WriteTokens writes the XML form of tokens.
func WriteTokens(w io.Writer, tokens []token.Token) error {
	return Write(w, Tokens(tokens))
}

// WriteTree writes the XML form of the tree rooted at root.
func WriteTree(w io.Writer, root *parsetree.Node) error {
	return Write(w, Tree(root))
}

// setOrigin records where an element's construct came from.
func setOrigin(el *etree.Element, origin source.Origin) {
	if path := source.PathOf(origin.Source); path != "" {
		el.CreateAttr("SourceFile", path)
	} else {
		el.CreateAttr("AnonymousSource", "true")
	}

	pos := origin.Position()
	el.CreateAttr("SourceOffset", strconv.Itoa(origin.Offset))
	el.CreateAttr("Line", strconv.Itoa(pos.Line))
	el.CreateAttr("Column", strconv.Itoa(pos.Column))
}
