package debugxml_test

import (
	"bytes"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/pkg/debugxml"
	"github.com/yaklabco/duic/pkg/lexer"
	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/source"
)

func TestTokens(t *testing.T) {
	t.Parallel()

	file := source.NewFile("main.dui", source.FileTypeMarkup, "#ifdef A\n<x/>")
	tokens, err := lexer.Tokenize(file, lexer.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, debugxml.WriteTokens(&buf, tokens))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "TokenStream", root.Tag)

	elements := root.SelectElements("Token")
	require.Len(t, elements, len(tokens))

	hash := elements[0]
	assert.Equal(t, "main.dui", hash.SelectAttrValue("SourceFile", ""))
	assert.Equal(t, "0", hash.SelectAttrValue("SourceOffset", ""))
	assert.Equal(t, "1", hash.SelectAttrValue("Line", ""))
	assert.Equal(t, "1", hash.SelectAttrValue("Column", ""))
	assert.Equal(t, "Symbol", hash.SelectAttrValue("TokenType", ""))
	assert.Equal(t, "Preprocessor", hash.SelectAttrValue("TokenLanguage", ""))
	assert.Equal(t, "#", hash.Text())

	newline := elements[3]
	assert.Equal(t, "NewLine", newline.SelectAttrValue("SpecialValue", ""))
	assert.Empty(t, newline.Text())

	lt := elements[4]
	assert.Equal(t, "Markup", lt.SelectAttrValue("TokenLanguage", ""))
	assert.Equal(t, "2", lt.SelectAttrValue("Line", ""))
	assert.Equal(t, "<", lt.Text())
}

func TestTree(t *testing.T) {
	t.Parallel()

	src := source.NewAnonymous("#ifndef GUARD\n#endif\n")
	stream, err := lexer.NewStream(src, lexer.Options{})
	require.NoError(t, err)

	world, err := preprocessor.New(src, nil).Parse(stream)
	require.NoError(t, err)

	root := debugxml.Tree(world)
	assert.Equal(t, "ParseNode", root.Tag)
	assert.Equal(t, "World", root.SelectAttrValue("Name", ""))
	assert.Equal(t, "true", root.SelectAttrValue("AnonymousSource", ""))
	assert.Nil(t, root.SelectElement("Attributes"))

	ifNode := root.FindElement("Children/ParseNode")
	require.NotNil(t, ifNode)
	assert.Equal(t, "If", ifNode.SelectAttrValue("Name", ""))

	attr := ifNode.FindElement("Attributes/ParseNodeAttribute")
	require.NotNil(t, attr)
	assert.Equal(t, "ifndef", attr.SelectAttrValue("Directive", ""))

	check := root.FindElement("//ParseNode[@Name='DefinedCheck']")
	require.NotNil(t, check)
	assert.Equal(t, "GUARD", check.FindElement("Attributes/ParseNodeAttribute").SelectAttrValue("Name", ""))
	assert.Equal(t, "8", check.SelectAttrValue("SourceOffset", ""))
}
