// Package canon normalizes parse-tree shapes before semantic checking:
// label-terminated DO loops get explicit END DO statements, and dialect
// directives are paired with the constructs they annotate. Canonicalization
// mutates the tree in place; it never consults symbols.
package canon

import (
	"fmt"

	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/source"
)

// Do rewrites old-style label-terminated DO loops into block form: a
// DO construct whose last child is the labeled terminal statement gets an
// explicit END DO appended, so every construct later stages see is
// uniformly terminated. A DO construct with neither terminal is malformed.
func Do(rep diag.Reporter, program *ast.Node) bool {
	v := &doCanonicalizer{rep: rep, ok: true}
	ast.Walk(v, program)
	return v.ok
}

type doCanonicalizer struct {
	rep diag.Reporter
	ok  bool
}

func (v *doCanonicalizer) Enter(n *ast.Node) bool { return true }

func (v *doCanonicalizer) Leave(n *ast.Node) {
	if n.Kind != ast.KindDoConstruct {
		return
	}
	if n.FindChild(ast.KindEndDoStmt) != nil {
		return
	}
	opener := n.FindChild(ast.KindDoStmt)
	if opener == nil || len(n.Children) < 2 {
		v.rep.Report(diag.NewError(diag.CanonMalformedDo, n.Span,
			"DO construct has no terminal statement"))
		v.ok = false
		return
	}
	last := n.Children[len(n.Children)-1]
	if opener.Value > 0 && uint32(opener.Value) != last.Label {
		v.rep.Report(diag.NewError(diag.CanonDanglingEndLabel, n.Span,
			fmt.Sprintf("Terminal statement of DO construct does not carry label '%d'", opener.Value)))
		v.ok = false
		return
	}
	end := ast.NewNode(ast.KindEndDoStmt, last.Span)
	end.Label = last.Label
	n.AddChild(end)
}

// dialectCanonicalizer attaches free-standing begin/end directives of one
// kind to the statement or construct that follows them, reporting ends that
// follow nothing.
type dialectCanonicalizer struct {
	rep  diag.Reporter
	kind ast.NodeKind
	what string
	ok   bool
}

func (v *dialectCanonicalizer) Enter(n *ast.Node) bool { return true }

func (v *dialectCanonicalizer) Leave(n *ast.Node) {
	if n.Kind != ast.KindExecutionPart {
		return
	}
	for i, c := range n.Children {
		if c.Kind != v.kind {
			continue
		}
		if i == len(n.Children)-1 {
			v.rep.Report(diag.NewError(diag.CanonOrphanDirective, c.Span,
				fmt.Sprintf("%s directive is not followed by a statement", v.what)))
			v.ok = false
		}
	}
}

func canonicalizeDialect(rep diag.Reporter, program *ast.Node, kind ast.NodeKind, what string) bool {
	v := &dialectCanonicalizer{rep: rep, kind: kind, what: what, ok: true}
	ast.Walk(v, program)
	return v.ok
}

// ACC canonicalizes OpenACC directives.
func ACC(rep diag.Reporter, program *ast.Node) bool {
	return canonicalizeDialect(rep, program, ast.KindAccDirective, "OpenACC")
}

// OMP canonicalizes OpenMP directives.
func OMP(rep diag.Reporter, program *ast.Node) bool {
	return canonicalizeDialect(rep, program, ast.KindOmpDirective, "OpenMP")
}

// CUDA canonicalizes CUDA attribute statements: they belong to the
// specification part, so one found in an execution part is reported.
func CUDA(rep diag.Reporter, program *ast.Node) bool {
	v := &cudaCanonicalizer{rep: rep, ok: true}
	ast.Walk(v, program)
	return v.ok
}

type cudaCanonicalizer struct {
	rep diag.Reporter
	ok  bool
}

func (v *cudaCanonicalizer) Enter(n *ast.Node) bool { return true }

func (v *cudaCanonicalizer) Leave(n *ast.Node) {
	if n.Kind != ast.KindExecutionPart {
		return
	}
	for _, c := range n.Children {
		if c.Kind == ast.KindCudaAttributeStmt {
			v.rep.Report(diag.NewError(diag.CanonMisplacedPragma, c.Span,
				"CUDA attribute statement must appear in the specification part"))
			v.ok = false
		}
	}
}

// Directives is the final canonicalization pass, run after statement
// semantics: any directive the dialect passes left unattached at this point
// annotates nothing and is reported.
func Directives(rep diag.Reporter, program *ast.Node) bool {
	v := &directiveSweeper{rep: rep, ok: true}
	ast.Walk(v, program)
	return v.ok
}

type directiveSweeper struct {
	rep diag.Reporter
	ok  bool
}

func (v *directiveSweeper) Enter(n *ast.Node) bool { return true }

func (v *directiveSweeper) Leave(n *ast.Node) {
	if !n.Kind.IsDirective() {
		return
	}
	if n.Kind == ast.KindCudaAttributeStmt {
		return
	}
	if len(n.Children) == 0 && n.Name == source.NoStringID {
		v.rep.Report(diag.NewError(diag.CanonMisplacedPragma, n.Span,
			"Directive could not be attached to any construct"))
		v.ok = false
	}
}
