package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// StopChecker validates the optional stop code: it must be a default-kind
// INTEGER or CHARACTER scalar.
type StopChecker struct {
	ctx *Context
}

func NewStopChecker(ctx *Context) *StopChecker { return &StopChecker{ctx: ctx} }

func (c *StopChecker) Name() string { return "stop" }

func (c *StopChecker) Register(r *Registry) {
	r.OnLeave(ast.KindStopStmt, c.leaveStop)
}

func (c *StopChecker) leaveStop(n *ast.Node) {
	if len(n.Children) == 0 {
		return
	}
	code := n.Children[0]
	var ty symbols.Type
	var rank uint8
	switch code.Kind {
	case ast.KindLiteralExpr:
		ty = code.Type
	case ast.KindNameExpr:
		if c.ctx.HasError(code.Sym) {
			return
		}
		sym := c.ctx.Table.Symbols.Get(code.Sym)
		if sym == nil || sym.Type.Category == symbols.TypeNone {
			return
		}
		ty, rank = sym.Type, sym.Rank
	default:
		return
	}
	ok := rank == 0 &&
		(ty.Category == symbols.TypeInteger || ty.Category == symbols.TypeCharacter) &&
		ty.Kind == ty.Category.DefaultKind()
	if !ok {
		c.ctx.Say(code.Span, diag.SemaStopCodeKind,
			"STOP code must be a default INTEGER or CHARACTER scalar")
	}
}

// ReturnChecker rejects RETURN outside a subprogram.
type ReturnChecker struct {
	ctx *Context
}

func NewReturnChecker(ctx *Context) *ReturnChecker { return &ReturnChecker{ctx: ctx} }

func (c *ReturnChecker) Name() string { return "return" }

func (c *ReturnChecker) Register(r *Registry) {
	r.OnLeave(ast.KindReturnStmt, c.leaveReturn)
}

func (c *ReturnChecker) leaveReturn(n *ast.Node) {
	for id := c.ctx.FindScope(n.Span); id.IsValid(); {
		s := c.ctx.Table.Scopes.Get(id)
		if s == nil {
			break
		}
		if s.Kind == symbols.ScopeSubprogram {
			return
		}
		id = s.Parent
	}
	c.ctx.Say(n.Span, diag.SemaReturnOutsideSubprogram,
		"RETURN may only appear in a function or subroutine")
}
