package sema

import (
	"fern/internal/ast"
	"fern/internal/diag"
)

// Dialect structure checkers run as dedicated traversals, one per enabled
// extension, after the statement checkers. Each enforces where its
// directives may appear relative to the construct nesting.

// AccStructureChecker validates OpenACC directive placement.
type AccStructureChecker struct {
	ctx *Context
}

func NewAccStructureChecker(ctx *Context) *AccStructureChecker {
	return &AccStructureChecker{ctx: ctx}
}

func (c *AccStructureChecker) Name() string { return "acc-structure" }

func (c *AccStructureChecker) Register(r *Registry) {
	r.OnEnter(ast.KindAccDirective, c.enterDirective)
}

func (c *AccStructureChecker) enterDirective(n *ast.Node) {
	for _, frame := range c.ctx.ConstructStack() {
		if frame.Kind == ast.KindForallConstruct {
			msg := c.ctx.Say(n.Span, diag.SemaAccBadNesting,
				"OpenACC directive may not appear in a FORALL construct")
			diag.Attach(msg, frame.Span, "Enclosing FORALL construct")
			return
		}
	}
}

// OmpStructureChecker validates OpenMP directive placement.
type OmpStructureChecker struct {
	ctx *Context
}

func NewOmpStructureChecker(ctx *Context) *OmpStructureChecker {
	return &OmpStructureChecker{ctx: ctx}
}

func (c *OmpStructureChecker) Name() string { return "omp-structure" }

func (c *OmpStructureChecker) Register(r *Registry) {
	r.OnEnter(ast.KindOmpDirective, c.enterDirective)
}

func (c *OmpStructureChecker) enterDirective(n *ast.Node) {
	for _, frame := range c.ctx.ConstructStack() {
		if frame.Kind == ast.KindCriticalConstruct {
			msg := c.ctx.Say(n.Span, diag.SemaOmpBadNesting,
				"OpenMP directive may not appear in a CRITICAL construct")
			diag.Attach(msg, frame.Span, "Enclosing CRITICAL construct")
			return
		}
	}
}

// CudaChecker validates CUDA attribute statements, which are specification
// statements and may not occur inside an executable construct.
type CudaChecker struct {
	ctx *Context
}

func NewCudaChecker(ctx *Context) *CudaChecker { return &CudaChecker{ctx: ctx} }

func (c *CudaChecker) Name() string { return "cuda" }

func (c *CudaChecker) Register(r *Registry) {
	r.OnEnter(ast.KindCudaAttributeStmt, func(n *ast.Node) {
		if c.ctx.ConstructDepth() > 0 {
			c.ctx.Say(n.Span, diag.SemaCudaBadAttr,
				"CUDA attribute statement may not appear in an executable construct")
		}
	})
}
