package sema

import (
	"testing"

	"fern/internal/config"
	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	return NewContext(config.Default(), source.NewFileSet())
}

// declareCommon builds one appearance of a common block in its own scope.
func declareCommon(ctx *Context, name string, size uint64, initialized bool) symbols.SymbolID {
	scope := ctx.Table.Scopes.New(symbols.ScopeSubprogram, ctx.Table.Global, source.Span{})
	var nameID source.StringID
	if name != "" {
		nameID = ctx.Table.Strings.Intern(name)
	}
	block := ctx.Table.Declare(scope, &symbols.Symbol{
		Name: nameID,
		Kind: symbols.SymbolCommonBlock,
		Size: size,
	})
	var flags symbols.SymbolFlags
	if initialized {
		flags = symbols.FlagInitialized
	}
	member := ctx.Table.Declare(scope, &symbols.Symbol{
		Name:   ctx.Table.Strings.Intern(name + "_member"),
		Kind:   symbols.SymbolObject,
		Flags:  flags,
		Common: block,
	})
	ctx.Table.Symbols.Get(block).Members = append(ctx.Table.Symbols.Get(block).Members, member)
	return block
}

func TestCommonBlocks_BiggestSizeWins(t *testing.T) {
	ctx := newTestContext(t)

	small := declareCommon(ctx, "c", 8, false)
	big := declareCommon(ctx, "c", 16, false)
	ctx.MapCommonBlockAndCheckConflicts(small)
	ctx.MapCommonBlockAndCheckConflicts(big)

	blocks := ctx.CommonBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 merged block, got %d", len(blocks))
	}
	if blocks[0].Size != 16 {
		t.Errorf("merged size: got %d, want 16", blocks[0].Size)
	}
	if blocks[0].Symbol != big {
		t.Errorf("representative: got %d, want biggest appearance %d", blocks[0].Symbol, big)
	}
	if ctx.AnyFatalError() {
		t.Errorf("distinct sizes must not be fatal by default")
	}

	// The distinct-sizes portability note was still recorded.
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaCommonDistinctSizes {
			found = true
			if d.Severity != diag.SevPortability {
				t.Errorf("distinct sizes severity: got %v, want portability", d.Severity)
			}
		}
	}
	if !found {
		t.Errorf("expected a distinct-sizes message")
	}
}

func TestCommonBlocks_InitializedRepresentativePreferred(t *testing.T) {
	ctx := newTestContext(t)

	initialized := declareCommon(ctx, "d", 8, true)
	big := declareCommon(ctx, "d", 32, false)
	ctx.MapCommonBlockAndCheckConflicts(initialized)
	ctx.MapCommonBlockAndCheckConflicts(big)

	blocks := ctx.CommonBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 merged block, got %d", len(blocks))
	}
	if blocks[0].Symbol != initialized {
		t.Errorf("representative: got %d, want initialized appearance %d", blocks[0].Symbol, initialized)
	}
	if blocks[0].Size != 32 {
		t.Errorf("size still follows the biggest appearance: got %d, want 32", blocks[0].Size)
	}
}

func TestCommonBlocks_MultipleInitializationIsFatal(t *testing.T) {
	ctx := newTestContext(t)

	first := declareCommon(ctx, "e", 8, true)
	second := declareCommon(ctx, "e", 8, true)
	ctx.MapCommonBlockAndCheckConflicts(first)
	ctx.MapCommonBlockAndCheckConflicts(second)

	if !ctx.AnyFatalError() {
		t.Fatalf("two initialized appearances must be a fatal error")
	}
	found := false
	for _, d := range ctx.Messages.Items() {
		if d.Code == diag.SemaCommonMultipleInit {
			found = true
			if len(d.Notes) == 0 {
				t.Errorf("multiple-init message should point at the previous initialization")
			}
		}
	}
	if !found {
		t.Errorf("expected a multiple-initialization message")
	}
}

func TestCommonBlocks_LinkNames(t *testing.T) {
	opts := config.Default()
	opts.Underscoring = false
	ctx := NewContext(opts, source.NewFileSet())

	blank := declareCommon(ctx, "", 8, false)
	named := declareCommon(ctx, "shared", 8, false)
	ctx.MapCommonBlockAndCheckConflicts(blank)
	ctx.MapCommonBlockAndCheckConflicts(named)

	blocks := ctx.CommonBlocks()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	// Sorted by link name: __BLNK__ before shared.
	if blocks[0].LinkName != "__BLNK__" {
		t.Errorf("blank common link name: got %q, want __BLNK__", blocks[0].LinkName)
	}
	if blocks[1].LinkName != "shared" {
		t.Errorf("named common link name: got %q, want shared", blocks[1].LinkName)
	}
}

func TestCommonBlocks_UnderscoringAndBindC(t *testing.T) {
	ctx := newTestContext(t) // underscoring on by default

	plain := declareCommon(ctx, "plain", 8, false)
	bound := declareCommon(ctx, "bound", 8, false)
	sym := ctx.Table.Symbols.Get(bound)
	sym.Flags |= symbols.FlagBindC
	sym.BindName = ctx.Table.Strings.Intern("c_name")

	ctx.MapCommonBlockAndCheckConflicts(plain)
	ctx.MapCommonBlockAndCheckConflicts(bound)

	names := map[string]bool{}
	for _, b := range ctx.CommonBlocks() {
		names[b.LinkName] = true
	}
	if !names["plain_"] {
		t.Errorf("underscoring should append to plain names: got %v", names)
	}
	if !names["c_name"] {
		t.Errorf("BIND(C) names must be used verbatim: got %v", names)
	}
}
