package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// AllocateChecker validates ALLOCATE object lists.
type AllocateChecker struct {
	ctx *Context
}

func NewAllocateChecker(ctx *Context) *AllocateChecker { return &AllocateChecker{ctx: ctx} }

func (c *AllocateChecker) Name() string { return "allocate" }

func (c *AllocateChecker) Register(r *Registry) {
	r.OnLeave(ast.KindAllocateStmt, func(n *ast.Node) {
		checkAllocObjects(c.ctx, n, diag.SemaAllocateBadObject,
			"Entity in ALLOCATE statement must have the ALLOCATABLE or POINTER attribute")
	})
}

// DeallocateChecker validates DEALLOCATE object lists.
type DeallocateChecker struct {
	ctx *Context
}

func NewDeallocateChecker(ctx *Context) *DeallocateChecker { return &DeallocateChecker{ctx: ctx} }

func (c *DeallocateChecker) Name() string { return "deallocate" }

func (c *DeallocateChecker) Register(r *Registry) {
	r.OnLeave(ast.KindDeallocateStmt, func(n *ast.Node) {
		checkAllocObjects(c.ctx, n, diag.SemaDeallocateBadObject,
			"Name in DEALLOCATE statement must have the ALLOCATABLE or POINTER attribute")
	})
}

// NullifyChecker validates NULLIFY object lists.
type NullifyChecker struct {
	ctx *Context
}

func NewNullifyChecker(ctx *Context) *NullifyChecker { return &NullifyChecker{ctx: ctx} }

func (c *NullifyChecker) Name() string { return "nullify" }

func (c *NullifyChecker) Register(r *Registry) {
	r.OnLeave(ast.KindNullifyStmt, func(n *ast.Node) {
		for _, obj := range n.Children {
			if obj.Kind != ast.KindNameExpr || !obj.Sym.IsValid() || c.ctx.HasError(obj.Sym) {
				continue
			}
			sym := c.ctx.Table.Symbols.Get(obj.Sym)
			if sym == nil || sym.Flags&symbols.FlagPointer == 0 {
				c.ctx.Say(obj.Span, diag.SemaNullifyBadObject,
					"'%s' in NULLIFY statement must have the POINTER attribute",
					c.ctx.Table.Name(obj.Sym))
			}
		}
	})
}

func checkAllocObjects(ctx *Context, n *ast.Node, code diag.Code, message string) {
	for _, obj := range n.Children {
		if obj.Kind != ast.KindNameExpr || !obj.Sym.IsValid() || ctx.HasError(obj.Sym) {
			continue
		}
		sym := ctx.Table.Symbols.Get(obj.Sym)
		if sym == nil {
			continue
		}
		if sym.Flags&(symbols.FlagAllocatable|symbols.FlagPointer) == 0 {
			msg := ctx.Say(obj.Span, code, "%s", message)
			diag.Attach(msg, sym.Span, "Declaration of '"+ctx.Table.Name(obj.Sym)+"'")
		}
	}
}
