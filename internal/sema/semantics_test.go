package sema

import (
	"testing"

	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/symbols"
	"fern/internal/testkit"
)

// buildMainProgram wraps an execution part around stmts.
func buildMainProgram(ctx *Context, stmts ...*ast.Node) *ast.Node {
	exec := ast.NewNode(ast.KindExecutionPart, span(0, 0))
	for _, s := range stmts {
		exec.AddChild(s)
	}
	unit := ast.NewNode(ast.KindMainProgram, span(0, 0))
	unit.Name = ctx.Table.Strings.Intern("main")
	unit.AddChild(exec)
	program := ast.NewProgram()
	program.AddChild(unit)
	return program
}

func assignment(ctx *Context, target string, sp uint32) *ast.Node {
	stmt := ast.NewNode(ast.KindAssignmentStmt, span(sp, sp+10))
	stmt.AddChild(ast.NewName(ctx.Table.Strings.Intern(target), span(sp, sp+1)))
	return stmt
}

func TestSemantics_CleanProgram(t *testing.T) {
	ctx := newTestContext(t)

	do := ast.NewNode(ast.KindDoConstruct, span(10, 60))
	doStmt := ast.NewNode(ast.KindDoStmt, span(10, 20))
	doStmt.AddChild(ast.NewName(ctx.Table.Strings.Intern("i"), span(13, 14)))
	do.AddChild(doStmt)
	do.AddChild(assignment(ctx, "x", 30))

	program := buildMainProgram(ctx, do)
	s := New(ctx, program)
	if !s.Perform() {
		t.Fatalf("clean program failed: %v", ctx.Messages.Items())
	}
	if ctx.Messages.Len() != 0 {
		t.Errorf("unexpected messages: %v", ctx.Messages.Items())
	}
	// Canonicalization supplied the missing END DO.
	if do.FindChild(ast.KindEndDoStmt) == nil {
		t.Errorf("DO construct was not terminated")
	}
	// Implicit typing: i is INTEGER, x is REAL.
	iSym := ctx.Table.Symbols.Get(doStmt.Children[0].Sym)
	if iSym.Type.Category != symbols.TypeInteger {
		t.Errorf("implicit type of i: got %v, want INTEGER", iSym.Type.Category)
	}
	if err := testkit.CheckScopeInvariants(ctx.Table); err != nil {
		t.Errorf("scope invariants violated: %v", err)
	}
}

func TestSemantics_FatalPassShortCircuits(t *testing.T) {
	ctx := newTestContext(t)

	a := ast.NewNode(ast.KindContinueStmt, span(10, 20))
	a.Label = 100
	b := ast.NewNode(ast.KindContinueStmt, span(30, 40))
	b.Label = 100

	program := buildMainProgram(ctx, a, b)
	s := New(ctx, program)
	if s.Perform() {
		t.Fatalf("duplicate labels must fail the pipeline")
	}
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.LabelDuplicate {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a duplicate-label message, got %v", ctx.Messages.Items())
	}
	// Resolution never ran: no unit scope was created beyond the two
	// built-in ones.
	if got := ctx.Table.Scopes.Len(); got != 2 {
		t.Errorf("later passes ran after a fatal pass: %d scopes", got)
	}
}

func TestSemantics_IndexVarRedefinitionCaught(t *testing.T) {
	ctx := newTestContext(t)

	do := ast.NewNode(ast.KindDoConstruct, span(10, 60))
	doStmt := ast.NewNode(ast.KindDoStmt, span(10, 20))
	doStmt.AddChild(ast.NewName(ctx.Table.Strings.Intern("i"), span(13, 14)))
	do.AddChild(doStmt)
	do.AddChild(assignment(ctx, "i", 30))
	do.AddChild(ast.NewNode(ast.KindEndDoStmt, span(50, 60)))

	program := buildMainProgram(ctx, do)
	s := New(ctx, program)
	if s.Perform() {
		t.Fatalf("redefined DO variable must fail analysis")
	}
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaIndexVarRedefinition {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an index-variable message, got %v", ctx.Messages.Items())
	}
}

func TestSemantics_UndefinedFunctionResultWarns(t *testing.T) {
	ctx := newTestContext(t)

	exec := ast.NewNode(ast.KindExecutionPart, span(0, 0))
	exec.AddChild(assignment(ctx, "y", 30))
	unit := ast.NewNode(ast.KindFunctionSubprogram, span(10, 60))
	unit.Name = ctx.Table.Strings.Intern("f")
	unit.AddChild(exec)
	program := ast.NewProgram()
	program.AddChild(unit)

	s := New(ctx, program)
	if !s.Perform() {
		t.Fatalf("warning-only program failed: %v", ctx.Messages.Items())
	}
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaUndefinedFunctionResult {
			found = true
			if d.Severity != diag.SevWarning {
				t.Errorf("severity: got %v, want warning", d.Severity)
			}
		}
	}
	if !found {
		t.Errorf("expected an undefined-result warning, got %v", ctx.Messages.Items())
	}
}

func TestSemantics_DefinedFunctionResultIsQuiet(t *testing.T) {
	ctx := newTestContext(t)

	exec := ast.NewNode(ast.KindExecutionPart, span(0, 0))
	exec.AddChild(assignment(ctx, "f", 30))
	unit := ast.NewNode(ast.KindFunctionSubprogram, span(10, 60))
	unit.Name = ctx.Table.Strings.Intern("f")
	unit.AddChild(exec)
	program := ast.NewProgram()
	program.AddChild(unit)

	s := New(ctx, program)
	if !s.Perform() {
		t.Fatalf("program failed: %v", ctx.Messages.Items())
	}
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaUndefinedFunctionResult {
			t.Errorf("result is assigned, warning is spurious")
		}
	}
}

func TestSemantics_ReturnInSubroutineIsClean(t *testing.T) {
	ctx := newTestContext(t)

	exec := ast.NewNode(ast.KindExecutionPart, span(0, 0))
	exec.AddChild(ast.NewNode(ast.KindReturnStmt, span(30, 40)))
	unit := ast.NewNode(ast.KindSubroutineSubprogram, span(10, 60))
	unit.Name = ctx.Table.Strings.Intern("s")
	unit.AddChild(exec)
	program := ast.NewProgram()
	program.AddChild(unit)

	s := New(ctx, program)
	if !s.Perform() {
		t.Fatalf("RETURN in a subroutine failed analysis: %v", ctx.Messages.Items())
	}
	if ctx.Messages.Len() != 0 {
		t.Errorf("unexpected messages: %v", ctx.Messages.Items())
	}
}

func TestSemantics_ReturnInMainProgramRejected(t *testing.T) {
	ctx := newTestContext(t)

	program := buildMainProgram(ctx, ast.NewNode(ast.KindReturnStmt, span(30, 40)))
	s := New(ctx, program)
	if s.Perform() {
		t.Fatalf("RETURN in a main program must fail analysis")
	}
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaReturnOutsideSubprogram {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a RETURN placement message, got %v", ctx.Messages.Items())
	}
}

func TestSemantics_StopInPureSubprogramRejected(t *testing.T) {
	ctx := newTestContext(t)

	exec := ast.NewNode(ast.KindExecutionPart, span(0, 0))
	exec.AddChild(ast.NewNode(ast.KindStopStmt, span(30, 40)))
	unit := ast.NewNode(ast.KindSubroutineSubprogram, span(10, 60))
	unit.Name = ctx.Table.Strings.Intern("halt")
	unit.Attrs = ast.AttrPure
	unit.AddChild(exec)
	program := ast.NewProgram()
	program.AddChild(unit)

	s := New(ctx, program)
	if s.Perform() {
		t.Fatalf("STOP in a pure subprogram must fail analysis")
	}
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaPurityViolation {
			found = true
			if len(d.Notes) == 0 {
				t.Errorf("purity message should point at the subprogram declaration")
			}
		}
	}
	if !found {
		t.Errorf("expected a purity message, got %v", ctx.Messages.Items())
	}
}

func TestSemantics_DataInitializationCompiled(t *testing.T) {
	ctx := newTestContext(t)

	data := ast.NewNode(ast.KindDataStmt, span(10, 30))
	obj := ast.NewNode(ast.KindDataObject, span(12, 18))
	obj.AddChild(ast.NewName(ctx.Table.Strings.Intern("x"), span(12, 13)))
	data.AddChild(obj)

	program := buildMainProgram(ctx, data)
	s := New(ctx, program)
	if !s.Perform() {
		t.Fatalf("program failed: %v", ctx.Messages.Items())
	}
	sym := obj.Children[0].Sym
	if !sym.IsValid() {
		t.Fatalf("data object was not resolved")
	}
	if !ctx.Table.IsInitialized(sym) {
		t.Errorf("data initialization was not compiled into the symbol")
	}
}
