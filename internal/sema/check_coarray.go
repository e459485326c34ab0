package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
)

// CoarrayChecker enforces image-control nesting rules: a CRITICAL construct
// may not contain another CRITICAL construct, and STOP may not appear inside
// one.
type CoarrayChecker struct {
	ctx *Context
}

func NewCoarrayChecker(ctx *Context) *CoarrayChecker { return &CoarrayChecker{ctx: ctx} }

func (c *CoarrayChecker) Name() string { return "coarray" }

func (c *CoarrayChecker) Register(r *Registry) {
	r.OnEnter(ast.KindCriticalConstruct, c.enterCritical)
	r.OnLeave(ast.KindStopStmt, c.leaveStop)
}

// enterCritical runs with the construct already pushed, so the enclosing
// frames are everything below the top of the stack.
func (c *CoarrayChecker) enterCritical(n *ast.Node) {
	if frame := c.enclosingCritical(1); frame != nil {
		msg := c.ctx.Say(n.Span, diag.SemaCoarrayBadContext,
			"CRITICAL construct may not be nested inside another CRITICAL construct")
		diag.Attach(msg, frame.Span, "Enclosing CRITICAL construct")
	}
}

func (c *CoarrayChecker) leaveStop(n *ast.Node) {
	if frame := c.enclosingCritical(0); frame != nil {
		msg := c.ctx.Say(n.Span, diag.SemaCoarrayBadContext,
			"Image control statement may not appear in a CRITICAL construct")
		diag.Attach(msg, frame.Span, "Enclosing CRITICAL construct")
	}
}

// enclosingCritical scans the construct stack outward, ignoring skip frames
// from the top. Enter handlers pass 1 so the construct being entered does
// not match itself.
func (c *CoarrayChecker) enclosingCritical(skip int) *ConstructFrame {
	stack := c.ctx.ConstructStack()
	for i := len(stack) - 1 - skip; i >= 0; i-- {
		if stack[i].Kind == ast.KindCriticalConstruct {
			return &stack[i]
		}
	}
	return nil
}
