package sema

import (
	"fern/internal/ast"
	"fern/internal/symbols"
)

// RewriteParseTree repairs statements the parser could not classify without
// name resolution. The grammar parses `f(x) = expr` in a specification part
// as an assignment; once resolution shows f to be the function being
// defined, the statement is reclassified as a statement function definition
// in place.
func RewriteParseTree(ctx *Context, program *ast.Node) {
	ast.Walk(&rewriteVisitor{ctx: ctx}, program)
}

type rewriteVisitor struct {
	ctx    *Context
	inSpec int
}

func (v *rewriteVisitor) Enter(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindSpecificationPart:
		v.inSpec++
	case ast.KindAssignmentStmt:
		if v.inSpec > 0 {
			v.maybeStmtFunction(n)
		}
		return false
	case ast.KindExecutionPart:
		return false
	}
	return true
}

func (v *rewriteVisitor) Leave(n *ast.Node) {
	if n.Kind == ast.KindSpecificationPart {
		v.inSpec--
	}
}

func (v *rewriteVisitor) maybeStmtFunction(n *ast.Node) {
	target := n.FindChild(ast.KindNameExpr)
	if target == nil || !target.Sym.IsValid() {
		return
	}
	sym := v.ctx.Table.Symbols.Get(target.Sym)
	if sym == nil || sym.Flags&symbols.FlagFunction == 0 {
		return
	}
	n.Kind = ast.KindStmtFunctionStmt
}
