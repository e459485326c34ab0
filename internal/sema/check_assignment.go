package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// AssignmentChecker validates assignment targets: named constants may not
// be redefined, active index variables are guarded, and successful
// definitions are recorded for the undefined-function-result warning.
type AssignmentChecker struct {
	ctx *Context
}

func NewAssignmentChecker(ctx *Context) *AssignmentChecker { return &AssignmentChecker{ctx: ctx} }

func (c *AssignmentChecker) Name() string { return "assignment" }

func (c *AssignmentChecker) Register(r *Registry) {
	r.OnEnter(ast.KindAssignmentStmt, c.enterAssignment)
	r.OnLeave(ast.KindReadStmt, c.leaveRead)
}

func (c *AssignmentChecker) enterAssignment(n *ast.Node) {
	target := c.target(n)
	if target == nil {
		return
	}
	sym := c.ctx.Table.Symbols.Get(target.Sym)
	if sym == nil {
		return
	}
	if sym.Kind == symbols.SymbolParameter {
		spelled := c.ctx.Table.Name(target.Sym)
		msg := c.ctx.Say(target.Span, diag.SemaAssignTargetKind,
			"Named constant '%s' may not be redefined", spelled)
		diag.Attach(msg, sym.Span, "Declaration of '"+spelled+"'")
		return
	}
	c.ctx.CheckIndexVarRedefine(target.Span, target.Sym)
	c.ctx.NoteDefinedSymbol(c.ctx.Table.ResolveAssociations(target.Sym))
}

// leaveRead treats every input item as a definition of its variable, with
// the same index-variable guard as an assignment target. Children[0] is the
// io unit, not an input item.
func (c *AssignmentChecker) leaveRead(n *ast.Node) {
	if len(n.Children) == 0 {
		return
	}
	for _, item := range n.Children[1:] {
		if item.Kind != ast.KindNameExpr || !item.Sym.IsValid() {
			continue
		}
		c.ctx.CheckIndexVarRedefine(item.Span, item.Sym)
		c.ctx.NoteDefinedSymbol(c.ctx.Table.ResolveAssociations(item.Sym))
	}
}

// target returns the left-hand-side name of an assignment statement.
func (c *AssignmentChecker) target(n *ast.Node) *ast.Node {
	t := n.FindChild(ast.KindNameExpr)
	if t == nil || !t.Sym.IsValid() {
		return nil
	}
	return t
}
