package resolve

import (
	"testing"

	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

type nopIndexer struct{}

func (nopIndexer) UpdateScopeIndex(symbols.ScopeID, source.Span) {}

func resolveProgram(t *testing.T, table *symbols.Table, program *ast.Node) *diag.Bag {
	t.Helper()
	bag := diag.NewBag(0)
	if !ResolveNames(table, diag.BagReporter{Bag: bag}, nopIndexer{}, program) {
		t.Fatalf("resolution failed: %v", bag.Items())
	}
	return bag
}

func mainUnit(table *symbols.Table, stmts ...*ast.Node) *ast.Node {
	exec := ast.NewNode(ast.KindExecutionPart, sp(0, 0))
	for _, s := range stmts {
		exec.AddChild(s)
	}
	unit := ast.NewNode(ast.KindMainProgram, sp(0, 100))
	unit.Name = table.Strings.Intern("main")
	unit.AddChild(exec)
	p := ast.NewProgram()
	p.AddChild(unit)
	return p
}

func TestResolve_ImplicitTyping(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	stmt := ast.NewNode(ast.KindAssignmentStmt, sp(10, 30))
	target := ast.NewName(table.Strings.Intern("index"), sp(10, 15))
	value := ast.NewName(table.Strings.Intern("value"), sp(20, 25))
	stmt.AddChild(target)
	stmt.AddChild(value)

	resolveProgram(t, table, mainUnit(table, stmt))

	if !target.Sym.IsValid() || !value.Sym.IsValid() {
		t.Fatalf("names not bound")
	}
	if got := table.Symbols.Get(target.Sym).Type.Category; got != symbols.TypeInteger {
		t.Errorf("'index' implicit type: got %v, want INTEGER", got)
	}
	if got := table.Symbols.Get(value.Sym).Type.Category; got != symbols.TypeReal {
		t.Errorf("'value' implicit type: got %v, want REAL", got)
	}
	if table.Symbols.Get(target.Sym).Flags&symbols.FlagImplicit == 0 {
		t.Errorf("implicitly created symbol must carry the implicit flag")
	}
}

func TestResolve_DeclarationRefinesImplicitUse(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	decl := ast.NewNode(ast.KindTypeDeclarationStmt, sp(10, 30))
	entity := ast.NewNode(ast.KindEntityDecl, sp(20, 25))
	entity.Name = table.Strings.Intern("value")
	entity.Type = symbols.Type{Category: symbols.TypeInteger, Kind: 8}
	entity.Attrs = ast.AttrSave
	decl.AddChild(entity)

	spec := ast.NewNode(ast.KindSpecificationPart, sp(10, 30))
	spec.AddChild(decl)
	use := ast.NewName(table.Strings.Intern("value"), sp(40, 45))
	stmt := ast.NewNode(ast.KindAssignmentStmt, sp(40, 60))
	stmt.AddChild(use)
	exec := ast.NewNode(ast.KindExecutionPart, sp(40, 60))
	exec.AddChild(stmt)

	unit := ast.NewNode(ast.KindMainProgram, sp(0, 100))
	unit.AddChild(spec)
	unit.AddChild(exec)
	p := ast.NewProgram()
	p.AddChild(unit)

	resolveProgram(t, table, p)

	if use.Sym != entity.Sym {
		t.Fatalf("use bound to %d, declaration to %d", use.Sym, entity.Sym)
	}
	sym := table.Symbols.Get(use.Sym)
	if sym.Type != (symbols.Type{Category: symbols.TypeInteger, Kind: 8}) {
		t.Errorf("declared type lost: %v", sym.Type)
	}
	if sym.Flags&symbols.FlagSave == 0 {
		t.Errorf("SAVE attribute lost")
	}
	if sym.Flags&symbols.FlagImplicit != 0 {
		t.Errorf("declared symbol still marked implicit")
	}
}

func TestResolve_DuplicateDeclarationRejected(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	spec := ast.NewNode(ast.KindSpecificationPart, sp(10, 60))
	for i := uint32(0); i < 2; i++ {
		decl := ast.NewNode(ast.KindTypeDeclarationStmt, sp(10+i*20, 25+i*20))
		entity := ast.NewNode(ast.KindEntityDecl, sp(12+i*20, 20+i*20))
		entity.Name = table.Strings.Intern("twice")
		entity.Type = symbols.Type{Category: symbols.TypeReal, Kind: 4}
		decl.AddChild(entity)
		spec.AddChild(decl)
	}
	unit := ast.NewNode(ast.KindMainProgram, sp(0, 100))
	unit.AddChild(spec)
	p := ast.NewProgram()
	p.AddChild(unit)

	bag := diag.NewBag(0)
	if ResolveNames(table, diag.BagReporter{Bag: bag}, nopIndexer{}, p) {
		t.Fatalf("duplicate declaration accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaDuplicateName {
		t.Errorf("got %v, want one duplicate-name message", bag.Items())
	}
}

func TestResolve_CommonBlockMembership(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	common := ast.NewNode(ast.KindCommonStmt, sp(10, 40))
	block := ast.NewNode(ast.KindCommonBlockDecl, sp(10, 40))
	block.Name = table.Strings.Intern("shared")
	a := ast.NewName(table.Strings.Intern("a"), sp(20, 21))
	b := ast.NewName(table.Strings.Intern("b"), sp(25, 26))
	block.AddChild(a)
	block.AddChild(b)
	common.AddChild(block)

	resolveProgram(t, table, mainUnit(table, common))

	if !block.Sym.IsValid() {
		t.Fatalf("common block not declared")
	}
	blockSym := table.Symbols.Get(block.Sym)
	if blockSym.Kind != symbols.SymbolCommonBlock {
		t.Errorf("block kind: got %v", blockSym.Kind)
	}
	if len(blockSym.Members) != 2 {
		t.Fatalf("members: got %d, want 2", len(blockSym.Members))
	}
	if table.FindCommonBlockContaining(a.Sym) != block.Sym {
		t.Errorf("member 'a' not linked to its block")
	}
}

func TestResolve_CrayPointerPairs(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	stmt := ast.NewNode(ast.KindCrayPointerStmt, sp(10, 40))
	ptr := ast.NewName(table.Strings.Intern("p"), sp(15, 16))
	pointee := ast.NewName(table.Strings.Intern("buf"), sp(20, 23))
	stmt.AddChild(ptr)
	stmt.AddChild(pointee)

	resolveProgram(t, table, mainUnit(table, stmt))

	if !ptr.Sym.IsValid() || !pointee.Sym.IsValid() {
		t.Fatalf("pointer pair not bound")
	}
	// The pointer holds an address: default INTEGER even though 'p' would
	// implicitly be REAL.
	if got := table.Symbols.Get(ptr.Sym).Type.Category; got != symbols.TypeInteger {
		t.Errorf("Cray pointer type: got %v, want INTEGER", got)
	}
	scope := table.Scopes.Get(table.Symbols.Get(ptr.Sym).Scope)
	if got := scope.CrayPointers[pointee.Name]; got != ptr.Sym {
		t.Errorf("pointee not recorded in the aliasing table: got %d, want %d", got, ptr.Sym)
	}
}

func TestResolve_CrayPointeeRedeclarationRejected(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	stmt := ast.NewNode(ast.KindCrayPointerStmt, sp(10, 60))
	stmt.AddChild(ast.NewName(table.Strings.Intern("p"), sp(15, 16)))
	stmt.AddChild(ast.NewName(table.Strings.Intern("buf"), sp(20, 23)))
	stmt.AddChild(ast.NewName(table.Strings.Intern("q"), sp(30, 31)))
	stmt.AddChild(ast.NewName(table.Strings.Intern("buf"), sp(35, 38)))

	bag := diag.NewBag(0)
	if ResolveNames(table, diag.BagReporter{Bag: bag}, nopIndexer{}, mainUnit(table, stmt)) {
		t.Fatalf("pointee with two Cray pointers accepted")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SemaDuplicateName {
		t.Errorf("got %v, want one duplicate-name message", bag.Items())
	}
}

func TestResolve_FunctionResultDeclared(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	unit := ast.NewNode(ast.KindFunctionSubprogram, sp(0, 100))
	unit.Name = table.Strings.Intern("dist")
	p := ast.NewProgram()
	p.AddChild(unit)

	resolveProgram(t, table, p)

	owner := table.Symbols.Get(unit.Sym)
	if owner == nil || owner.Flags&symbols.FlagFunction == 0 {
		t.Fatalf("function owner missing or untagged")
	}
	if !owner.Result.IsValid() {
		t.Fatalf("result variable not declared")
	}
	result := table.Symbols.Get(owner.Result)
	if result.Type.Category != symbols.TypeReal {
		t.Errorf("result of 'dist' should be implicit REAL, got %v", result.Type.Category)
	}
}

func TestResolve_BlockConstructScopes(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)

	block := ast.NewNode(ast.KindBlockConstruct, sp(10, 60))
	stmt := ast.NewNode(ast.KindAssignmentStmt, sp(20, 40))
	stmt.AddChild(ast.NewName(table.Strings.Intern("tmp"), sp(20, 23)))
	block.AddChild(stmt)

	resolveProgram(t, table, mainUnit(table, block))

	// tmp lives in the nested Block scope, not the unit scope.
	sym := table.Symbols.Get(stmt.Children[0].Sym)
	if sym == nil {
		t.Fatalf("name in block not bound")
	}
	if got := table.Scopes.Get(sym.Scope).Kind; got != symbols.ScopeBlock {
		t.Errorf("owning scope: got %v, want Block", got)
	}
}
