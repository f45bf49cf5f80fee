package preprocessor

import (
	"github.com/yaklabco/duic/pkg/diag"
	"github.com/yaklabco/duic/pkg/parsetree"
	"github.com/yaklabco/duic/pkg/source"
)

// Node names produced by the parser.
const (
	NameIf              = "If"
	NameElif            = "Elif"
	NameElse            = "Else"
	NameExpression      = "Expression"
	NameDefinedCheck    = "DefinedCheck"
	NameUnaryOperation  = "UnaryOperation"
	NameBinaryOperation = "BinaryOperation"
	NameLeftOperand     = "LeftOperand"
	NameRightOperand    = "RightOperand"
	NameIdentifier      = "Identifier"
	NameNumber          = "Number"
	NameDefine          = "Define"
	NameUndef           = "Undef"
	NameInclude         = "Include"
	NamePragma          = "Pragma"
	NameError           = "Error"
)

// Attribute keys.
const (
	AttrDirective  = "Directive"
	AttrName       = "Name"
	AttrValue      = "Value"
	AttrType       = "Type"
	AttrText       = "Text"
	AttrParameters = "Parameters"
	AttrPath       = "Path"
	AttrStyle      = "Style"
	AttrMessage    = "Message"
)

// Include styles.
const (
	IncludeQuoted = "quoted"
	IncludeSystem = "system"
)

// UnaryOperator is the operator of a UnaryOperation node.
type UnaryOperator uint8

// Unary operators.
const (
	UnaryInvalid UnaryOperator = iota
	BitwiseNot
	LogicalNot
)

var unaryNames = map[UnaryOperator]string{
	UnaryInvalid: "Invalid",
	BitwiseNot:   "BitwiseNot",
	LogicalNot:   "LogicalNot",
}

// String returns the attribute form of the operator.
func (op UnaryOperator) String() string {
	if name, ok := unaryNames[op]; ok {
		return name
	}
	return unaryNames[UnaryInvalid]
}

// BinaryOperator is the operator of a BinaryOperation node.
type BinaryOperator uint8

// Binary operators.
const (
	BinaryInvalid BinaryOperator = iota
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseLeftShift
	BitwiseRightShift
	LogicalAnd
	LogicalOr
)

var binaryNames = map[BinaryOperator]string{
	BinaryInvalid:     "Invalid",
	BitwiseAnd:        "BitwiseAnd",
	BitwiseOr:         "BitwiseOr",
	BitwiseXor:        "BitwiseXor",
	BitwiseLeftShift:  "BitwiseLeftShift",
	BitwiseRightShift: "BitwiseRightShift",
	LogicalAnd:        "LogicalAnd",
	LogicalOr:         "LogicalOr",
}

// String returns the attribute form of the operator.
func (op BinaryOperator) String() string {
	if name, ok := binaryNames[op]; ok {
		return name
	}
	return binaryNames[BinaryInvalid]
}

// If is a conditional block opened by #if, #ifdef or #ifndef. Its first
// child is always the condition Expression.
type If struct{ *parsetree.Node }

// NewIf creates an If node with an empty condition.
func NewIf(origin source.Origin, directive string) If {
	n := parsetree.New(NameIf, origin)
	n.SetAttribute(AttrDirective, directive)
	n.SetValidator(validateIf)
	parsetree.AppendChild(n, NewExpression(origin).Node)
	return If{n}
}

// AsIf returns the If view of n.
func AsIf(n *parsetree.Node) (If, bool) {
	if !n.Is(NameIf) {
		return If{}, false
	}
	return If{n}, true
}

// Directive returns the keyword that opened the block.
func (i If) Directive() string {
	value, _ := i.Attribute(AttrDirective)
	return value
}

// Expression returns the condition.
func (i If) Expression() Expression {
	return Expression{i.Child(0)}
}

// Else returns the Else node, if one was added.
func (i If) Else() (*parsetree.Node, bool) {
	n := i.ChildByName(NameElse)
	return n, n != nil
}

// Elifs returns the Elif branches in source order.
func (i If) Elifs() []Elif {
	var out []Elif
	for _, child := range i.Children() {
		if child.Is(NameElif) {
			out = append(out, Elif{child})
		}
	}
	return out
}

// AddElse appends an Else node.
func (i If) AddElse(origin source.Origin) *parsetree.Node {
	n := parsetree.New(NameElse, origin)
	n.SetValidator(parsetree.ChildRange(0, 0))
	parsetree.AppendChild(i.Node, n)
	return n
}

// AddElif appends an Elif branch with an empty condition.
func (i If) AddElif(origin source.Origin) Elif {
	n := parsetree.New(NameElif, origin)
	n.SetValidator(parsetree.ExactChildren(NameExpression))
	parsetree.AppendChild(n, NewExpression(origin).Node)
	parsetree.AppendChild(i.Node, n)
	return Elif{n}
}

func validateIf(n *parsetree.Node) error {
	if !n.Child(0).Is(NameExpression) {
		return diag.Internal(n.Origin(), "If node must start with an Expression")
	}
	elses := 0
	for _, child := range n.Children() {
		if child.Is(NameElse) {
			elses++
		}
	}
	if elses > 1 {
		return diag.Internal(n.Origin(), "If node has %d Else branches", elses)
	}
	return nil
}

// Elif is an alternative branch of an If.
type Elif struct{ *parsetree.Node }

// Expression returns the branch condition.
func (e Elif) Expression() Expression {
	return Expression{e.Child(0)}
}

// Expression holds a condition: either a single operand subtree or, for
// conditions outside the structured grammar, only the raw Text attribute.
type Expression struct{ *parsetree.Node }

// NewExpression creates an empty Expression node.
func NewExpression(origin source.Origin) Expression {
	n := parsetree.New(NameExpression, origin)
	n.SetValidator(parsetree.ChildRange(0, 1))
	return Expression{n}
}

// Operand returns the condition subtree, or nil for raw conditions.
func (e Expression) Operand() *parsetree.Node {
	return e.Child(0)
}

// SetOperand replaces the condition subtree.
func (e Expression) SetOperand(operand *parsetree.Node) {
	setSingleChild(e.Node, operand)
}

// Text returns the raw condition text, if recorded.
func (e Expression) Text() string {
	value, _ := e.Attribute(AttrText)
	return value
}

// NewDefinedCheck creates a DefinedCheck node testing name.
func NewDefinedCheck(origin source.Origin, name string) *parsetree.Node {
	n := parsetree.New(NameDefinedCheck, origin)
	n.SetAttribute(AttrName, name)
	n.SetValidator(parsetree.All(parsetree.ChildRange(0, 0), parsetree.RequireAttributes(AttrName)))
	return n
}

// NewIdentifier creates a leaf naming a macro used as a value.
func NewIdentifier(origin source.Origin, name string) *parsetree.Node {
	n := parsetree.New(NameIdentifier, origin)
	n.SetAttribute(AttrValue, name)
	n.SetValidator(parsetree.ChildRange(0, 0))
	return n
}

// NewNumber creates a numeric literal leaf.
func NewNumber(origin source.Origin, literal string) *parsetree.Node {
	n := parsetree.New(NameNumber, origin)
	n.SetAttribute(AttrValue, literal)
	n.SetValidator(parsetree.ChildRange(0, 0))
	return n
}

// UnaryOperation applies an operator to one operand child.
type UnaryOperation struct{ *parsetree.Node }

// NewUnaryOperation creates a UnaryOperation with no operand yet.
func NewUnaryOperation(op UnaryOperator, origin source.Origin) UnaryOperation {
	n := parsetree.New(NameUnaryOperation, origin)
	n.SetAttribute(AttrType, op.String())
	n.SetValidator(parsetree.ChildRange(1, 1))
	return UnaryOperation{n}
}

// Operator returns the operator.
func (u UnaryOperation) Operator() UnaryOperator {
	value, _ := u.Attribute(AttrType)
	for op, name := range unaryNames {
		if name == value {
			return op
		}
	}
	return UnaryInvalid
}

// Operand returns the operand, or nil.
func (u UnaryOperation) Operand() *parsetree.Node {
	return u.Child(0)
}

// SetOperand replaces the operand.
func (u UnaryOperation) SetOperand(operand *parsetree.Node) {
	setSingleChild(u.Node, operand)
}

// BinaryOperation applies an operator to two operands, each held by a
// single-child LeftOperand or RightOperand wrapper.
type BinaryOperation struct{ *parsetree.Node }

// NewBinaryOperation creates a BinaryOperation with empty operand slots.
func NewBinaryOperation(op BinaryOperator, origin source.Origin) BinaryOperation {
	n := parsetree.New(NameBinaryOperation, origin)
	n.SetAttribute(AttrType, op.String())
	n.SetValidator(validateBinary)

	left := parsetree.New(NameLeftOperand, origin)
	left.SetValidator(parsetree.ChildRange(1, 1))
	right := parsetree.New(NameRightOperand, origin)
	right.SetValidator(parsetree.ChildRange(1, 1))

	parsetree.AppendChild(n, left)
	parsetree.AppendChild(n, right)
	return BinaryOperation{n}
}

// Operator returns the operator.
func (b BinaryOperation) Operator() BinaryOperator {
	value, _ := b.Attribute(AttrType)
	for op, name := range binaryNames {
		if name == value {
			return op
		}
	}
	return BinaryInvalid
}

// Left returns the left operand, or nil.
func (b BinaryOperation) Left() *parsetree.Node {
	return b.ChildByName(NameLeftOperand).Child(0)
}

// Right returns the right operand, or nil.
func (b BinaryOperation) Right() *parsetree.Node {
	return b.ChildByName(NameRightOperand).Child(0)
}

// SetLeft replaces the left operand.
func (b BinaryOperation) SetLeft(operand *parsetree.Node) {
	setSingleChild(b.ChildByName(NameLeftOperand), operand)
}

// SetRight replaces the right operand.
func (b BinaryOperation) SetRight(operand *parsetree.Node) {
	setSingleChild(b.ChildByName(NameRightOperand), operand)
}

func validateBinary(n *parsetree.Node) error {
	return parsetree.ExactChildren(NameLeftOperand, NameRightOperand)(n)
}

// Undef removes a macro definition.
type Undef struct{ *parsetree.Node }

// NewUndef creates an Undef node for name.
func NewUndef(origin source.Origin, name string) Undef {
	n := parsetree.New(NameUndef, origin)
	n.SetAttribute(AttrValue, name)
	n.SetValidator(parsetree.All(parsetree.ChildRange(0, 0), parsetree.RequireAttributes(AttrValue)))
	return Undef{n}
}

// Value returns the macro name. An Undef without one is a builder defect.
func (u Undef) Value() (string, error) {
	value, _ := u.Attribute(AttrValue)
	if value == "" {
		return "", diag.Internal(u.Origin(), "empty-valued undef statement")
	}
	return value, nil
}

// newStatement creates a leaf directive node with the given attributes set.
func newStatement(name string, origin source.Origin, attrs ...string) *parsetree.Node {
	n := parsetree.New(name, origin)
	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttribute(attrs[i], attrs[i+1])
	}
	n.SetValidator(parsetree.ChildRange(0, 0))
	return n
}

// setSingleChild makes operand the only child of holder, detaching
// whatever was there.
func setSingleChild(holder, operand *parsetree.Node) {
	for _, child := range holder.Children() {
		parsetree.RemoveChild(holder, child)
	}
	if operand != nil {
		parsetree.AppendChild(holder, operand)
	}
}
