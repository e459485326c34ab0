package modfile

import (
	"os"
	"path/filepath"
	"testing"

	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

func buildModule(t *testing.T, table *symbols.Table) symbols.ScopeID {
	t.Helper()
	scope := table.Scopes.New(symbols.ScopeModule, table.Global, source.Span{})
	owner := table.Declare(table.Global, &symbols.Symbol{
		Name: table.Strings.Intern("phys"),
		Kind: symbols.SymbolModule,
	})
	s := table.Scopes.Get(scope)
	s.Symbol = owner
	s.Size = 24
	s.Alignment = 8

	v := table.Declare(scope, &symbols.Symbol{
		Name:  table.Strings.Intern("gravity"),
		Kind:  symbols.SymbolObject,
		Type:  symbols.Type{Category: symbols.TypeReal, Kind: 8},
		Size:  8,
		Flags: symbols.FlagInitialized,
	})
	f := table.Declare(scope, &symbols.Symbol{
		Name:  table.Strings.Intern("speed"),
		Kind:  symbols.SymbolSubprogram,
		Flags: symbols.FlagFunction,
	})
	table.Symbols.Get(f).Result = v
	table.Scopes.Get(scope).EquivalenceSets = append(
		table.Scopes.Get(scope).EquivalenceSets, symbols.EquivalenceSet{v, f})
	return scope
}

func TestModfile_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	out := symbols.NewTable(symbols.Hints{}, nil)
	bag := diag.NewBag(0)
	buildModule(t, out)
	w := NewWriter(out, diag.BagReporter{Bag: bag}, dir)
	if !w.WriteAll() {
		t.Fatalf("write failed: %v", bag.Items())
	}
	if _, err := os.Stat(filepath.Join(dir, "phys.mod")); err != nil {
		t.Fatalf("module file missing: %v", err)
	}

	in := symbols.NewTable(symbols.Hints{}, nil)
	r := NewReader(in, diag.BagReporter{Bag: bag}, []string{dir})
	scope := r.Read("phys", false, false)
	if !scope.IsValid() {
		t.Fatalf("read failed: %v", bag.Items())
	}

	s := in.Scopes.Get(scope)
	if !s.ModuleFile {
		t.Errorf("read scope not marked as module file")
	}
	if s.Size != 24 || s.Alignment != 8 {
		t.Errorf("scope layout: got size=%d alignment=%d, want 24/8", s.Size, s.Alignment)
	}

	gravity := in.LookupLocal(scope, in.Strings.Intern("gravity"))
	if !gravity.IsValid() {
		t.Fatalf("gravity not found after read")
	}
	g := in.Symbols.Get(gravity)
	if g.Type != (symbols.Type{Category: symbols.TypeReal, Kind: 8}) {
		t.Errorf("gravity type: got %v", g.Type)
	}
	if g.Flags&symbols.FlagInitialized == 0 {
		t.Errorf("initialization flag lost")
	}
	if g.Flags&symbols.FlagInModuleFile == 0 {
		t.Errorf("read symbols must be marked as module-file symbols")
	}

	speed := in.LookupLocal(scope, in.Strings.Intern("speed"))
	if got := in.Symbols.Get(speed).Result; got != gravity {
		t.Errorf("result cross-reference: got %d, want %d", got, gravity)
	}
	if len(s.EquivalenceSets) != 1 || len(s.EquivalenceSets[0]) != 2 {
		t.Errorf("equivalence sets lost: %v", s.EquivalenceSets)
	}
	if !in.IsInModuleFileScope(scope) {
		t.Errorf("IsInModuleFileScope must hold for a read scope")
	}
}

func TestModfile_MissingFile(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	bag := diag.NewBag(0)
	r := NewReader(table, diag.BagReporter{Bag: bag}, []string{t.TempDir()})

	if scope := r.Read("nope", false, true); scope.IsValid() {
		t.Errorf("silent read of a missing module returned a scope")
	}
	if bag.Len() != 0 {
		t.Errorf("silent read reported: %v", bag.Items())
	}

	if scope := r.Read("nope", false, false); scope.IsValid() {
		t.Errorf("read of a missing module returned a scope")
	}
	if bag.Len() == 0 {
		t.Errorf("loud read must report the missing file")
	}
}

func TestModfile_InspectMatchesWriter(t *testing.T) {
	dir := t.TempDir()
	table := symbols.NewTable(symbols.Hints{}, nil)
	bag := diag.NewBag(0)
	buildModule(t, table)
	if !NewWriter(table, diag.BagReporter{Bag: bag}, dir).WriteAll() {
		t.Fatalf("write failed: %v", bag.Items())
	}

	info, err := Inspect(filepath.Join(dir, "phys.mod"))
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if info.Name != "phys" || info.Size != 24 {
		t.Errorf("header: got name=%q size=%d", info.Name, info.Size)
	}
	if len(info.Symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(info.Symbols))
	}
	if info.Symbols[0].Name != "gravity" || info.Symbols[0].Kind != symbols.SymbolObject {
		t.Errorf("first symbol: got %+v", info.Symbols[0])
	}
}
