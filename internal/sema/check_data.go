package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// DataChecker validates DATA statements and accumulates their pending
// initializations. The initializations are only compiled into symbol
// initializers at the end of statement semantics, once all declarations and
// references are known to be valid.
type DataChecker struct {
	ctx     *Context
	pending []symbols.SymbolID
}

func NewDataChecker(ctx *Context) *DataChecker { return &DataChecker{ctx: ctx} }

func (c *DataChecker) Name() string { return "data" }

func (c *DataChecker) Register(r *Registry) {
	r.OnLeave(ast.KindDataStmt, c.leaveData)
}

func (c *DataChecker) leaveData(n *ast.Node) {
	for _, obj := range n.Children {
		if obj.Kind != ast.KindDataObject {
			continue
		}
		name := obj.FindChild(ast.KindNameExpr)
		if name == nil || !name.Sym.IsValid() {
			continue
		}
		sym := c.ctx.Table.Symbols.Get(name.Sym)
		if sym == nil {
			continue
		}
		if sym.Kind != symbols.SymbolObject {
			c.ctx.Say(name.Span, diag.SemaDataBadObject,
				"'%s' may not be initialized in a DATA statement", c.ctx.Table.Name(name.Sym))
			continue
		}
		c.ctx.CheckIndexVarRedefine(name.Span, name.Sym)
		c.pending = append(c.pending, name.Sym)
	}
}

// CompileDataInitializations finalizes the accumulated initializations into
// symbol initializers. Only called when no fatal error occurred.
func (c *DataChecker) CompileDataInitializations() {
	for _, p := range c.pending {
		if sym := c.ctx.Table.Symbols.Get(p); sym != nil {
			sym.Flags |= symbols.FlagInitialized
		}
	}
	c.pending = nil
}
