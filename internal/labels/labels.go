// Package labels validates statement labels before any semantic pass runs:
// later stages assume every branch target exists, is unique within its
// program unit, and is not hidden inside a construct the branch does not
// share.
package labels

import (
	"fmt"

	"fern/internal/ast"
	"fern/internal/diag"
)

// Validate checks label uniqueness and branch-target legality in every
// program unit of the tree. It returns false when any error was reported.
func Validate(rep diag.Reporter, program *ast.Node) bool {
	ok := true
	for _, unit := range program.Children {
		if !validateUnit(rep, unit) {
			ok = false
		}
	}
	return ok
}

type definition struct {
	node *ast.Node
	path []*ast.Node // enclosing constructs, outermost first
}

type branch struct {
	target uint32
	node   *ast.Node
	path   []*ast.Node
}

func validateUnit(rep diag.Reporter, unit *ast.Node) bool {
	ok := true

	collect := &labelCollector{defined: make(map[uint32]definition)}
	ast.Walk(collect, unit)

	for label, first := range collect.duplicates {
		d := rep.Report(diag.NewError(diag.LabelDuplicate, first.Span,
			fmt.Sprintf("Label '%d' is not distinct", label)))
		diag.Attach(d, collect.defined[label].node.Span, "Previous definition of this label")
		ok = false
	}
	for _, b := range collect.branches {
		def, exists := collect.defined[b.target]
		if !exists {
			rep.Report(diag.NewError(diag.LabelUndefined, b.node.Span,
				fmt.Sprintf("Label '%d' was not found", b.target)))
			ok = false
			continue
		}
		// Jumping out of constructs is fine; jumping into one is not. The
		// target's construct path must be a prefix of the branch's.
		if !isPathPrefix(def.path, b.path) {
			d := rep.Report(diag.NewError(diag.LabelBadBranch, b.node.Span,
				fmt.Sprintf("Label '%d' is in a construct that prevents branching to it", b.target)))
			diag.Attach(d, def.node.Span, "Definition of the label")
			ok = false
		}
	}
	return ok
}

func isPathPrefix(target, from []*ast.Node) bool {
	if len(target) > len(from) {
		return false
	}
	for i, c := range target {
		if from[i] != c {
			return false
		}
	}
	return true
}

type labelCollector struct {
	defined    map[uint32]definition
	duplicates map[uint32]*ast.Node
	stack      []*ast.Node
	branches   []branch
}

func (c *labelCollector) path() []*ast.Node {
	if len(c.stack) == 0 {
		return nil
	}
	p := make([]*ast.Node, len(c.stack))
	copy(p, c.stack)
	return p
}

func (c *labelCollector) Enter(n *ast.Node) bool {
	if n.Kind.IsConstruct() {
		c.stack = append(c.stack, n)
	}
	if n.Kind.IsStatement() && n.Label != 0 {
		if _, dup := c.defined[n.Label]; dup {
			if c.duplicates == nil {
				c.duplicates = make(map[uint32]*ast.Node)
			}
			if _, seen := c.duplicates[n.Label]; !seen {
				c.duplicates[n.Label] = n
			}
		} else {
			c.defined[n.Label] = definition{node: n, path: c.path()}
		}
	}
	switch n.Kind {
	case ast.KindGotoStmt, ast.KindAssignStmt, ast.KindAssignedGotoStmt, ast.KindDoStmt:
		if n.Value > 0 {
			c.branches = append(c.branches, branch{target: uint32(n.Value), node: n, path: c.path()})
		}
	case ast.KindArithmeticIfStmt:
		if len(n.Children) == 0 {
			break
		}
		// The three branch targets are literal children after the selector.
		for _, t := range n.Children[1:] {
			if t.Kind == ast.KindLiteralExpr && t.Value > 0 {
				c.branches = append(c.branches, branch{target: uint32(t.Value), node: t, path: c.path()})
			}
		}
	}
	return true
}

func (c *labelCollector) Leave(n *ast.Node) {
	if n.Kind.IsConstruct() {
		c.stack = c.stack[:len(c.stack)-1]
	}
}
