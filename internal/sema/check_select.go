package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// CaseChecker detects overlapping CASE values within one SELECT CASE
// construct.
type CaseChecker struct {
	ctx *Context
	// seen maps case values to the span of their first appearance, one map
	// per construct nesting level.
	seen []map[int64]*ast.Node
}

func NewCaseChecker(ctx *Context) *CaseChecker { return &CaseChecker{ctx: ctx} }

func (c *CaseChecker) Name() string { return "case" }

func (c *CaseChecker) Register(r *Registry) {
	r.OnEnter(ast.KindCaseConstruct, c.enterCase)
	r.OnLeave(ast.KindCaseConstruct, c.leaveCase)
	r.OnLeave(ast.KindCaseStmt, c.leaveCaseStmt)
}

func (c *CaseChecker) enterCase(n *ast.Node) {
	c.seen = append(c.seen, make(map[int64]*ast.Node))
}

func (c *CaseChecker) leaveCase(n *ast.Node) {
	c.seen = c.seen[:len(c.seen)-1]
}

func (c *CaseChecker) leaveCaseStmt(n *ast.Node) {
	if len(c.seen) == 0 {
		return
	}
	current := c.seen[len(c.seen)-1]
	for _, v := range n.Children {
		if v.Kind != ast.KindLiteralExpr {
			continue
		}
		if prev, ok := current[v.Value]; ok {
			msg := c.ctx.Say(v.Span, diag.SemaCaseDuplicate,
				"CASE value matches a previous CASE statement")
			diag.Attach(msg, prev.Span, "Previous CASE statement")
			continue
		}
		current[v.Value] = v
	}
}

// SelectRankChecker validates SELECT RANK selectors.
type SelectRankChecker struct {
	ctx *Context
}

func NewSelectRankChecker(ctx *Context) *SelectRankChecker { return &SelectRankChecker{ctx: ctx} }

func (c *SelectRankChecker) Name() string { return "select-rank" }

func (c *SelectRankChecker) Register(r *Registry) {
	r.OnEnter(ast.KindSelectRankConstruct, func(n *ast.Node) {
		checkSelector(c.ctx, n, diag.SemaSelectRankBadSelector, "SELECT RANK")
	})
}

// SelectTypeChecker validates SELECT TYPE selectors.
type SelectTypeChecker struct {
	ctx *Context
}

func NewSelectTypeChecker(ctx *Context) *SelectTypeChecker { return &SelectTypeChecker{ctx: ctx} }

func (c *SelectTypeChecker) Name() string { return "select-type" }

func (c *SelectTypeChecker) Register(r *Registry) {
	r.OnEnter(ast.KindSelectTypeConstruct, func(n *ast.Node) {
		checkSelector(c.ctx, n, diag.SemaSelectTypeBadSelector, "SELECT TYPE")
	})
}

// checkSelector requires the construct's selector to name a data object.
// The selector is the construct's first name expression; an associate-name
// form resolves through its association.
func checkSelector(ctx *Context, n *ast.Node, code diag.Code, what string) {
	sel := n.FindChild(ast.KindNameExpr)
	if sel == nil || ctx.HasError(sel.Sym) {
		return
	}
	ultimate := ctx.Table.ResolveAssociations(sel.Sym)
	sym := ctx.Table.Symbols.Get(ultimate)
	if sym == nil || sym.Kind != symbols.SymbolObject {
		ctx.Say(sel.Span, code,
			"Selector of %s must be a variable", what)
	}
}
