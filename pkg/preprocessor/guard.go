package preprocessor

import "github.com/yaklabco/duic/pkg/parsetree"

// GuardKind describes how a file protects itself against double inclusion.
type GuardKind uint8

const (
	// GuardNone means the file is not guarded.
	GuardNone GuardKind = iota
	// GuardPragmaOnce means the file contains #pragma once.
	GuardPragmaOnce
	// GuardMacro means the whole file is wrapped in #ifndef X / #define X.
	GuardMacro
)

// String returns the guard kind name.
func (k GuardKind) String() string {
	switch k {
	case GuardPragmaOnce:
		return "pragma-once"
	case GuardMacro:
		return "macro"
	default:
		return "none"
	}
}

// Guard is the result of DetectGuard.
type Guard struct {
	Kind  GuardKind
	Macro string
}

// DetectGuard inspects a finished tree. pragmaOnce is what the parser saw.
// A macro guard is a World whose only child is an #ifndef X without
// branches whose first directive is #define X.
func DetectGuard(world *parsetree.Node, pragmaOnce bool) Guard {
	if pragmaOnce {
		return Guard{Kind: GuardPragmaOnce}
	}
	if world == nil || world.ChildCount() != 1 {
		return Guard{}
	}

	ifNode, ok := AsIf(world.Child(0))
	if !ok || ifNode.Directive() != "ifndef" || len(ifNode.Elifs()) > 0 {
		return Guard{}
	}
	if _, hasElse := ifNode.Else(); hasElse {
		return Guard{}
	}

	not, ok := unary(ifNode.Expression().Operand())
	if !ok || not.Operator() != LogicalNot || !not.Operand().Is(NameDefinedCheck) {
		return Guard{}
	}
	macro, _ := not.Operand().Attribute(AttrName)

	define := ifNode.Child(1)
	if !define.Is(NameDefine) {
		return Guard{}
	}
	if name, _ := define.Attribute(AttrName); name != macro {
		return Guard{}
	}

	return Guard{Kind: GuardMacro, Macro: macro}
}

func unary(n *parsetree.Node) (UnaryOperation, bool) {
	if !n.Is(NameUnaryOperation) {
		return UnaryOperation{}, false
	}
	return UnaryOperation{n}, true
}
