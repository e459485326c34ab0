package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// BranchChecker validates branching statements whose legality depends on the
// type of a controlling expression: the arithmetic IF selector and the
// logical IF condition.
type BranchChecker struct {
	ctx *Context
}

func NewBranchChecker(ctx *Context) *BranchChecker { return &BranchChecker{ctx: ctx} }

func (c *BranchChecker) Name() string { return "branch" }

func (c *BranchChecker) Register(r *Registry) {
	r.OnLeave(ast.KindArithmeticIfStmt, c.leaveArithmeticIf)
	r.OnLeave(ast.KindIfStmt, c.leaveIf)
}

// leaveArithmeticIf requires a scalar numeric selector that is neither
// COMPLEX nor unsigned, per the deleted-feature rules of F2018 B.1.
func (c *BranchChecker) leaveArithmeticIf(n *ast.Node) {
	sel := operand(n)
	if sel == nil {
		return
	}
	ty, rank, known := c.typeOf(sel)
	if !known {
		return
	}
	switch {
	case rank != 0:
		c.ctx.Say(sel.Span, diag.SemaArithmeticIfOperand,
			"Arithmetic IF expression must be scalar")
	case ty.Category == symbols.TypeComplex:
		c.ctx.Say(sel.Span, diag.SemaArithmeticIfOperand,
			"Arithmetic IF expression may not be COMPLEX")
	case ty.Category != symbols.TypeInteger && ty.Category != symbols.TypeReal:
		c.ctx.Say(sel.Span, diag.SemaArithmeticIfOperand,
			"Arithmetic IF expression must be INTEGER or REAL")
	}
}

func (c *BranchChecker) leaveIf(n *ast.Node) {
	cond := operand(n)
	if cond == nil {
		return
	}
	ty, rank, known := c.typeOf(cond)
	if !known {
		return
	}
	if ty.Category != symbols.TypeLogical || rank != 0 {
		c.ctx.Say(cond.Span, diag.SemaExprBadOperand,
			"IF condition must be a scalar LOGICAL expression")
	}
}

// typeOf resolves the declared type of a name or literal expression. The
// third result is false when the expression's type is unknown, either
// because resolution already failed on it or because the node carries no
// type information.
func (c *BranchChecker) typeOf(n *ast.Node) (symbols.Type, uint8, bool) {
	switch n.Kind {
	case ast.KindNameExpr:
		if c.ctx.HasError(n.Sym) {
			return symbols.Type{}, 0, false
		}
		sym := c.ctx.Table.Symbols.Get(n.Sym)
		if sym == nil || sym.Type.Category == symbols.TypeNone {
			return symbols.Type{}, 0, false
		}
		return sym.Type, sym.Rank, true
	case ast.KindLiteralExpr:
		if n.Type.Category == symbols.TypeNone {
			return symbols.Type{}, 0, false
		}
		return n.Type, 0, true
	default:
		return symbols.Type{}, 0, false
	}
}

// operand returns the statement's controlling expression, its first child.
func operand(n *ast.Node) *ast.Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}
