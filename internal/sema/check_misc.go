package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
)

// MiscChecker covers statement legality rules that fit no other module:
// ENTRY inside an executable construct, and the operand rules of ASSIGN and
// assigned GOTO.
type MiscChecker struct {
	ctx *Context
}

func NewMiscChecker(ctx *Context) *MiscChecker { return &MiscChecker{ctx: ctx} }

func (c *MiscChecker) Name() string { return "misc" }

func (c *MiscChecker) Register(r *Registry) {
	r.OnLeave(ast.KindEntryStmt, c.leaveEntry)
	r.OnLeave(ast.KindAssignStmt, c.leaveAssign)
	r.OnLeave(ast.KindAssignedGotoStmt, c.leaveAssign)
}

func (c *MiscChecker) leaveEntry(n *ast.Node) {
	if c.ctx.ConstructDepth() > 0 { // C1571
		c.ctx.SayHere(diag.SemaEntryInConstruct,
			"ENTRY may not appear in an executable construct")
	}
}

func (c *MiscChecker) leaveAssign(n *ast.Node) {
	name := n.FindChild(ast.KindNameExpr)
	if name == nil {
		return
	}
	c.checkAssignGotoName(name)
}

// checkAssignGotoName enforces that the ASSIGN target is a default-kind
// integer scalar variable.
func (c *MiscChecker) checkAssignGotoName(name *ast.Node) {
	if c.ctx.HasError(name.Sym) {
		return
	}
	sym := c.ctx.Table.Symbols.Get(name.Sym)
	ok := sym != nil &&
		sym.Kind == symbols.SymbolObject &&
		sym.Rank == 0 &&
		sym.Type.Category == symbols.TypeInteger &&
		sym.Type.Kind == symbols.TypeInteger.DefaultKind()
	if !ok {
		spelled := c.ctx.Table.Name(name.Sym)
		if spelled == "" {
			spelled = c.ctx.Table.Strings.MustLookup(name.Name)
		}
		msg := c.ctx.Say(name.Span, diag.SemaAssignTargetKind,
			"'%s' must be a default integer scalar variable", spelled)
		if sym != nil {
			diag.Attach(msg, sym.Span, "Declaration of '"+spelled+"'")
		}
	}
}
