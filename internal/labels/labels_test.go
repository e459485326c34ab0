package labels

import (
	"testing"

	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func program(stmts ...*ast.Node) *ast.Node {
	exec := ast.NewNode(ast.KindExecutionPart, sp(0, 0))
	for _, s := range stmts {
		exec.AddChild(s)
	}
	unit := ast.NewNode(ast.KindMainProgram, sp(0, 0))
	unit.AddChild(exec)
	p := ast.NewProgram()
	p.AddChild(unit)
	return p
}

func labeled(label uint32, start uint32) *ast.Node {
	n := ast.NewNode(ast.KindContinueStmt, sp(start, start+8))
	n.Label = label
	return n
}

func goTo(target uint32, start uint32) *ast.Node {
	n := ast.NewNode(ast.KindGotoStmt, sp(start, start+8))
	n.Value = int64(target)
	return n
}

func TestValidate_CleanUnit(t *testing.T) {
	bag := diag.NewBag(0)
	p := program(labeled(10, 0), goTo(10, 20))
	if !Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("clean unit failed: %v", bag.Items())
	}
	if bag.Len() != 0 {
		t.Errorf("unexpected messages: %v", bag.Items())
	}
}

func TestValidate_DuplicateLabel(t *testing.T) {
	bag := diag.NewBag(0)
	p := program(labeled(10, 0), labeled(10, 20))
	if Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("duplicate label accepted")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LabelDuplicate {
		t.Errorf("got %v, want one duplicate-label message", items)
	}
	if len(items[0].Notes) == 0 {
		t.Errorf("duplicate message should point at the first definition")
	}
}

func TestValidate_UndefinedTarget(t *testing.T) {
	bag := diag.NewBag(0)
	p := program(goTo(99, 0))
	if Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("branch to a missing label accepted")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LabelUndefined {
		t.Errorf("got %v, want one undefined-label message", items)
	}
}

func TestValidate_ArithmeticIfTargets(t *testing.T) {
	bag := diag.NewBag(0)
	aif := ast.NewNode(ast.KindArithmeticIfStmt, sp(20, 40))
	aif.AddChild(ast.NewName(1, sp(23, 24))) // selector
	aif.AddChild(ast.NewLiteral(10, sp(25, 27)))
	aif.AddChild(ast.NewLiteral(20, sp(28, 30)))
	aif.AddChild(ast.NewLiteral(30, sp(31, 33)))
	p := program(labeled(10, 0), labeled(20, 8), aif)

	if Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("missing third target accepted")
	}
	if bag.Len() != 1 {
		t.Errorf("expected exactly one message, got %v", bag.Items())
	}
}

func TestValidate_BranchIntoConstructRejected(t *testing.T) {
	bag := diag.NewBag(0)
	do := ast.NewNode(ast.KindDoConstruct, sp(20, 60))
	do.AddChild(labeled(10, 30))
	p := program(goTo(10, 0), do)

	if Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("branch into a DO construct accepted")
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.LabelBadBranch {
		t.Errorf("got %v, want one bad-branch message", items)
	}
	if len(items[0].Notes) == 0 {
		t.Errorf("bad-branch message should point at the label definition")
	}
}

func TestValidate_BranchOutOfConstructAllowed(t *testing.T) {
	bag := diag.NewBag(0)
	do := ast.NewNode(ast.KindDoConstruct, sp(20, 60))
	do.AddChild(goTo(10, 30))
	p := program(labeled(10, 0), do)

	if !Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("branch out of a DO construct rejected: %v", bag.Items())
	}
}

func TestValidate_LabelsAreScopedPerUnit(t *testing.T) {
	bag := diag.NewBag(0)
	p := program(labeled(10, 0))
	second := ast.NewNode(ast.KindMainProgram, sp(100, 200))
	exec := ast.NewNode(ast.KindExecutionPart, sp(100, 200))
	exec.AddChild(labeled(10, 110))
	second.AddChild(exec)
	p.AddChild(second)

	if !Validate(diag.BagReporter{Bag: bag}, p) {
		t.Fatalf("same label in distinct units rejected: %v", bag.Items())
	}
}
