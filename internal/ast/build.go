package ast

import (
	"fern/internal/source"
)

// Construction helpers used by the parser bridge and by tests.

// NewNode creates a bare node.
func NewNode(kind NodeKind, span source.Span) *Node {
	return &Node{Kind: kind, Span: span}
}

// NewName creates a name expression for an identifier occurrence.
func NewName(name source.StringID, span source.Span) *Node {
	return &Node{Kind: KindNameExpr, Span: span, Name: name}
}

// NewLiteral creates an integer literal expression.
func NewLiteral(value int64, span source.Span) *Node {
	return &Node{Kind: KindLiteralExpr, Span: span, Value: value}
}

// NewProgram creates an empty program root.
func NewProgram() *Node {
	return &Node{Kind: KindProgram}
}

// UnitName returns the name of a program unit node, or NoStringID when the
// unit is unnamed (e.g. a blank main program).
func UnitName(unit *Node) source.StringID {
	if unit == nil {
		return source.NoStringID
	}
	switch unit.Kind {
	case KindMainProgram, KindModule, KindFunctionSubprogram,
		KindSubroutineSubprogram, KindBlockData:
		return unit.Name
	}
	return source.NoStringID
}
