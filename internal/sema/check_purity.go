package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// PurityChecker enforces the statement restrictions of PURE subprograms:
// no image control (STOP) and no external data transfer.
type PurityChecker struct {
	ctx *Context
}

func NewPurityChecker(ctx *Context) *PurityChecker { return &PurityChecker{ctx: ctx} }

func (c *PurityChecker) Name() string { return "purity" }

func (c *PurityChecker) Register(r *Registry) {
	r.OnLeave(ast.KindStopStmt, func(n *ast.Node) {
		c.requireImpure(n, "STOP statement")
	})
	r.OnLeave(ast.KindReadStmt, func(n *ast.Node) {
		c.requireImpure(n, "READ statement")
	})
	r.OnLeave(ast.KindWriteStmt, func(n *ast.Node) {
		c.requireImpure(n, "WRITE statement")
	})
}

func (c *PurityChecker) requireImpure(n *ast.Node, what string) {
	owner := c.enclosingSubprogram(n)
	if owner == nil || owner.Flags&symbols.FlagPure == 0 {
		return
	}
	msg := c.ctx.Say(n.Span, diag.SemaPurityViolation,
		"%s may not appear in a pure subprogram", what)
	diag.Attach(msg, owner.Span, "Declaration of pure subprogram '"+
		c.ctx.Table.Strings.MustLookup(owner.Name)+"'")
}

// enclosingSubprogram walks the scope graph up from the statement's scope to
// the nearest subprogram and returns its owning symbol.
func (c *PurityChecker) enclosingSubprogram(n *ast.Node) *symbols.Symbol {
	for id := c.ctx.FindScope(n.Span); id.IsValid(); {
		s := c.ctx.Table.Scopes.Get(id)
		if s == nil {
			return nil
		}
		if s.Kind == symbols.ScopeSubprogram {
			return c.ctx.Table.Symbols.Get(s.Symbol)
		}
		id = s.Parent
	}
	return nil
}
