package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
)

// DoForallChecker tracks DO and FORALL control variables: it activates the
// index variable when its construct is entered and deactivates it on exit,
// so assignments inside the construct can be checked against the guard.
type DoForallChecker struct {
	ctx *Context
}

func NewDoForallChecker(ctx *Context) *DoForallChecker { return &DoForallChecker{ctx: ctx} }

func (c *DoForallChecker) Name() string { return "do-forall" }

func (c *DoForallChecker) Register(r *Registry) {
	r.OnEnter(ast.KindDoConstruct, c.enterDo)
	r.OnLeave(ast.KindDoConstruct, c.leaveDo)
	r.OnEnter(ast.KindForallConstruct, c.enterForall)
	r.OnLeave(ast.KindForallConstruct, c.leaveForall)
	r.OnLeave(ast.KindForallStmt, c.leaveForallStmt)
}

func (c *DoForallChecker) enterDo(n *ast.Node) {
	if name := controlName(n, ast.KindDoStmt); name != nil {
		c.ctx.ActivateIndexVar(name, IndexVarDo)
	}
}

func (c *DoForallChecker) leaveDo(n *ast.Node) {
	if name := controlName(n, ast.KindDoStmt); name != nil {
		c.ctx.DeactivateIndexVar(name)
	}
}

func (c *DoForallChecker) enterForall(n *ast.Node) {
	if name := controlName(n, ast.KindForallStmt); name != nil {
		c.ctx.ActivateIndexVar(name, IndexVarForall)
	}
}

func (c *DoForallChecker) leaveForall(n *ast.Node) {
	if name := controlName(n, ast.KindForallStmt); name != nil {
		c.ctx.DeactivateIndexVar(name)
	}
}

// leaveForallStmt covers the single-statement FORALL form: its index
// variable is only live for the one assignment it controls, which has
// already been visited, so activation would be pointless; instead verify
// the assignment target was not the index itself.
func (c *DoForallChecker) leaveForallStmt(n *ast.Node) {
	name := n.FindChild(ast.KindNameExpr)
	if name == nil {
		return
	}
	if assignment := n.FindChild(ast.KindAssignmentStmt); assignment != nil {
		if target := assignment.FindChild(ast.KindNameExpr); target != nil &&
			target.Sym.IsValid() && target.Sym == name.Sym {
			c.ctx.Say(target.Span, diag.SemaIndexVarRedefinition,
				"Cannot redefine FORALL variable '%s'", c.ctx.Table.Name(target.Sym))
		}
	}
}

// controlName returns the control-variable name node of a loop construct:
// the first name expression of its opening statement.
func controlName(construct *ast.Node, opener ast.NodeKind) *ast.Node {
	stmt := construct.FindChild(opener)
	if stmt == nil {
		return nil
	}
	return stmt.FindChild(ast.KindNameExpr)
}
