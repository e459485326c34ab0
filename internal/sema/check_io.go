package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// IoChecker validates data-transfer statements: the io unit must be a scalar
// integer expression or a default unit literal.
type IoChecker struct {
	ctx *Context
}

func NewIoChecker(ctx *Context) *IoChecker { return &IoChecker{ctx: ctx} }

func (c *IoChecker) Name() string { return "io" }

func (c *IoChecker) Register(r *Registry) {
	r.OnLeave(ast.KindReadStmt, c.leaveTransfer)
	r.OnLeave(ast.KindWriteStmt, c.leaveTransfer)
}

func (c *IoChecker) leaveTransfer(n *ast.Node) {
	if len(n.Children) == 0 {
		return
	}
	unit := n.Children[0]
	switch unit.Kind {
	case ast.KindLiteralExpr:
		// A negative literal encodes the default unit ("*"); any other
		// literal unit must be an integer.
		if unit.Value >= 0 && unit.Type.Category != symbols.TypeInteger {
			c.ctx.Say(unit.Span, diag.SemaIoBadUnit,
				"I/O unit must be an INTEGER expression")
		}
	case ast.KindNameExpr:
		if c.ctx.HasError(unit.Sym) {
			return
		}
		sym := c.ctx.Table.Symbols.Get(unit.Sym)
		if sym == nil || sym.Type.Category == symbols.TypeNone {
			return
		}
		if sym.Type.Category != symbols.TypeInteger || sym.Rank != 0 {
			msg := c.ctx.Say(unit.Span, diag.SemaIoBadUnit,
				"I/O unit must be a scalar INTEGER variable")
			diag.Attach(msg, sym.Span, "Declaration of '"+c.ctx.Table.Name(unit.Sym)+"'")
		}
	}
}

// NamelistChecker requires every namelist group member to be a data object.
type NamelistChecker struct {
	ctx *Context
}

func NewNamelistChecker(ctx *Context) *NamelistChecker { return &NamelistChecker{ctx: ctx} }

func (c *NamelistChecker) Name() string { return "namelist" }

func (c *NamelistChecker) Register(r *Registry) {
	r.OnLeave(ast.KindNamelistStmt, c.leaveNamelist)
}

func (c *NamelistChecker) leaveNamelist(n *ast.Node) {
	for _, member := range n.Children {
		if member.Kind != ast.KindNameExpr || c.ctx.HasError(member.Sym) {
			continue
		}
		sym := c.ctx.Table.Symbols.Get(member.Sym)
		if sym == nil {
			continue
		}
		if sym.Kind != symbols.SymbolObject && sym.Kind != symbols.SymbolNamelist {
			c.ctx.Say(member.Span, diag.SemaNamelistBadMember,
				"'%s' in NAMELIST group must be a variable",
				c.ctx.Table.Name(member.Sym))
		}
	}
}
