package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
)

// ExprChecker is the lone module of the first checker pass. It verifies that
// every name expression survived resolution before the statement checkers
// of the second pass consult symbol properties, so those checkers can treat
// an invalid symbol id as "already reported" and stay quiet.
type ExprChecker struct {
	ctx *Context
	// reported de-duplicates by spelling so one misspelled name used ten
	// times produces one message.
	reported map[string]struct{}
}

func NewExprChecker(ctx *Context) *ExprChecker {
	return &ExprChecker{ctx: ctx, reported: make(map[string]struct{})}
}

func (c *ExprChecker) Name() string { return "expr" }

func (c *ExprChecker) Register(r *Registry) {
	r.OnLeave(ast.KindNameExpr, c.leaveName)
}

func (c *ExprChecker) leaveName(n *ast.Node) {
	if n.Sym.IsValid() {
		return
	}
	spelled := c.ctx.Table.Strings.MustLookup(n.Name)
	if _, dup := c.reported[spelled]; dup {
		return
	}
	c.reported[spelled] = struct{}{}
	c.ctx.Say(n.Span, diag.SemaUnresolvedName, "No explicit type declared for '%s'", spelled)
}
