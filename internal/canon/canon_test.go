package canon

import (
	"testing"

	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestDo_AppendsMissingEndDo(t *testing.T) {
	bag := diag.NewBag(0)

	do := ast.NewNode(ast.KindDoConstruct, sp(0, 50))
	opener := ast.NewNode(ast.KindDoStmt, sp(0, 10))
	opener.Value = 100 // label-terminated form
	do.AddChild(opener)
	body := ast.NewNode(ast.KindContinueStmt, sp(20, 30))
	body.Label = 100
	do.AddChild(body)

	if !Do(diag.BagReporter{Bag: bag}, do) {
		t.Fatalf("canonicalization failed: %v", bag.Items())
	}
	end := do.FindChild(ast.KindEndDoStmt)
	if end == nil {
		t.Fatalf("END DO not appended")
	}
	if end.Label != 100 {
		t.Errorf("terminal label not carried over: got %d", end.Label)
	}
}

func TestDo_ExistingEndDoUntouched(t *testing.T) {
	bag := diag.NewBag(0)

	do := ast.NewNode(ast.KindDoConstruct, sp(0, 50))
	do.AddChild(ast.NewNode(ast.KindDoStmt, sp(0, 10)))
	do.AddChild(ast.NewNode(ast.KindEndDoStmt, sp(40, 50)))

	if !Do(diag.BagReporter{Bag: bag}, do) {
		t.Fatalf("canonicalization failed: %v", bag.Items())
	}
	count := 0
	for _, c := range do.Children {
		if c.Kind == ast.KindEndDoStmt {
			count++
		}
	}
	if count != 1 {
		t.Errorf("END DO duplicated: %d", count)
	}
}

func TestDo_MissingTerminalIsError(t *testing.T) {
	bag := diag.NewBag(0)
	do := ast.NewNode(ast.KindDoConstruct, sp(0, 50))

	if Do(diag.BagReporter{Bag: bag}, do) {
		t.Fatalf("empty DO construct accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CanonMalformedDo {
		t.Errorf("got %v, want one malformed-DO message", bag.Items())
	}
}

func TestDo_WrongTerminalLabelIsError(t *testing.T) {
	bag := diag.NewBag(0)

	do := ast.NewNode(ast.KindDoConstruct, sp(0, 50))
	opener := ast.NewNode(ast.KindDoStmt, sp(0, 10))
	opener.Value = 100
	do.AddChild(opener)
	body := ast.NewNode(ast.KindContinueStmt, sp(20, 30))
	body.Label = 200
	do.AddChild(body)

	if Do(diag.BagReporter{Bag: bag}, do) {
		t.Fatalf("mislabeled terminal accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CanonDanglingEndLabel {
		t.Errorf("got %v, want one dangling-end-label message", bag.Items())
	}
}

func TestDialect_OrphanDirective(t *testing.T) {
	bag := diag.NewBag(0)

	exec := ast.NewNode(ast.KindExecutionPart, sp(0, 50))
	exec.AddChild(ast.NewNode(ast.KindContinueStmt, sp(0, 10)))
	exec.AddChild(ast.NewNode(ast.KindAccDirective, sp(40, 50)))

	if ACC(diag.BagReporter{Bag: bag}, exec) {
		t.Fatalf("trailing directive accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CanonOrphanDirective {
		t.Errorf("got %v, want one orphan-directive message", bag.Items())
	}

	// A directive followed by a statement is fine.
	ok := ast.NewNode(ast.KindExecutionPart, sp(0, 50))
	ok.AddChild(ast.NewNode(ast.KindOmpDirective, sp(0, 10)))
	ok.AddChild(ast.NewNode(ast.KindContinueStmt, sp(20, 30)))
	clean := diag.NewBag(0)
	if !OMP(diag.BagReporter{Bag: clean}, ok) {
		t.Errorf("attached directive rejected: %v", clean.Items())
	}
}

func TestCUDA_AttributeInExecutionPart(t *testing.T) {
	bag := diag.NewBag(0)
	exec := ast.NewNode(ast.KindExecutionPart, sp(0, 50))
	exec.AddChild(ast.NewNode(ast.KindCudaAttributeStmt, sp(0, 10)))

	if CUDA(diag.BagReporter{Bag: bag}, exec) {
		t.Fatalf("CUDA attribute in execution part accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.CanonMisplacedPragma {
		t.Errorf("got %v", bag.Items())
	}
}
