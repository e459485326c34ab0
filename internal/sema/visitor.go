package sema

import (
	"fmt"

	"fern/internal/ast"
)

// Handler is one per-node-kind callback of a checker module.
type Handler func(*ast.Node)

// Checker is an independent unit of semantic validation. Register is called
// once at composition time to declare the module's Enter/Leave handlers.
type Checker interface {
	Name() string
	Register(r *Registry)
}

// Registry collects one module's handler registrations and detects
// colliding registrations at composition time rather than mid-traversal.
type Registry struct {
	module string
	enter  map[ast.NodeKind]Handler
	leave  map[ast.NodeKind]Handler
	err    error
}

// OnEnter registers a callback invoked before kind's children are visited.
func (r *Registry) OnEnter(kind ast.NodeKind, h Handler) {
	if _, dup := r.enter[kind]; dup {
		r.fail("Enter", kind)
		return
	}
	r.enter[kind] = h
}

// OnLeave registers a callback invoked after kind's children are visited.
func (r *Registry) OnLeave(kind ast.NodeKind, h Handler) {
	if _, dup := r.leave[kind]; dup {
		r.fail("Leave", kind)
		return
	}
	r.leave[kind] = h
}

func (r *Registry) fail(phase string, kind ast.NodeKind) {
	if r.err == nil {
		r.err = fmt.Errorf("checker %s registers duplicate %s handler for %s",
			r.module, phase, kind)
	}
}

// Visitor composes an ordered list of checker modules into one traversal.
// For every node, each module's Enter handler runs in module-list order
// before the children are visited, and each Leave handler runs in the same
// order after. Statement nodes set the context's current location before
// any Enter and clear it after all Leaves; construct nodes push a construct
// marker before any Enter and pop it after all Leaves, so every diagnostic
// raised while a statement is processed is attributed to it.
//
// A Visitor is a single-use object: compose a fresh one per traversal.
type Visitor struct {
	ctx    *Context
	enter  map[ast.NodeKind][]Handler
	leave  map[ast.NodeKind][]Handler
	walked bool
}

// Compose validates and merges the checker modules. A module registering
// two handlers for the same (kind, phase) slot is a startup error.
func Compose(ctx *Context, checkers ...Checker) (*Visitor, error) {
	v := &Visitor{
		ctx:   ctx,
		enter: make(map[ast.NodeKind][]Handler),
		leave: make(map[ast.NodeKind][]Handler),
	}
	for _, checker := range checkers {
		r := &Registry{
			module: checker.Name(),
			enter:  make(map[ast.NodeKind]Handler),
			leave:  make(map[ast.NodeKind]Handler),
		}
		checker.Register(r)
		if r.err != nil {
			return nil, r.err
		}
		for kind, h := range r.enter {
			v.enter[kind] = append(v.enter[kind], h)
		}
		for kind, h := range r.leave {
			v.leave[kind] = append(v.leave[kind], h)
		}
	}
	return v, nil
}

// MustCompose is Compose for the fixed built-in checker sets, where a
// collision is a programming error.
func MustCompose(ctx *Context, checkers ...Checker) *Visitor {
	v, err := Compose(ctx, checkers...)
	if err != nil {
		panic(err)
	}
	return v
}

// Enter implements ast.Visitor.
func (v *Visitor) Enter(n *ast.Node) bool {
	if n.Kind.IsConstruct() {
		v.ctx.PushConstruct(n)
	}
	if n.Kind.IsStatement() {
		v.ctx.SetLocation(n.Span)
	}
	for _, h := range v.enter[n.Kind] {
		h(n)
	}
	return true
}

// Leave implements ast.Visitor.
func (v *Visitor) Leave(n *ast.Node) {
	for _, h := range v.leave[n.Kind] {
		h(n)
	}
	if n.Kind.IsStatement() {
		v.ctx.ClearLocation()
	}
	if n.Kind.IsConstruct() {
		v.ctx.PopConstruct()
	}
}

// Walk traverses the program once and reports whether no fatal diagnostic
// was raised during (or before) the traversal.
func (v *Visitor) Walk(program *ast.Node) bool {
	if v.walked {
		panic("sema: Visitor reused; compose a fresh traversal")
	}
	v.walked = true
	ast.Walk(v, program)
	return !v.ctx.AnyFatalError()
}
