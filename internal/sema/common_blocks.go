package sema

import (
	"sort"
	"strconv"

	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

// blankCommonLinkName is the external name of the blank common block.
const blankCommonLinkName = "__BLNK__"

// CommonBlockMap reconciles appearances of same-named common blocks across
// program units the way the link step would unify them: appearances are
// merged by external link name, the biggest observed size wins, and genuine
// inconsistencies (multiple initialization, distinct sizes of a named
// block) are flagged. The chosen representative and final size feed
// lowering so it can generate the correct storage even when a block appears
// with different sizes or is initialized outside block data.
type CommonBlockMap struct {
	blocks map[string]*commonBlockInfo
}

type commonBlockInfo struct {
	linkName string
	// biggestSize references the appearance with the largest size so far.
	biggestSize symbols.SymbolID
	// initialization references the appearance with initialized members,
	// if any.
	initialization symbols.SymbolID
}

func NewCommonBlockMap() *CommonBlockMap {
	return &CommonBlockMap{blocks: make(map[string]*commonBlockInfo)}
}

// Add merges one appearance of a common block and reports conflicts with
// previously seen appearances of the same link name.
func (m *CommonBlockMap) Add(ctx *Context, common symbols.SymbolID) {
	sym := ctx.Table.Symbols.Get(common)
	if sym == nil {
		return
	}
	initialized := commonBlockInitializer(ctx.Table, common)
	linkName := commonLinkName(ctx.Table, sym, ctx.Options.Underscoring)

	info, seen := m.blocks[linkName]
	if !seen {
		info = &commonBlockInfo{linkName: linkName, biggestSize: common}
		if initialized.IsValid() {
			info.initialization = common
		}
		m.blocks[linkName] = info
		return
	}
	if initialized.IsValid() {
		if info.initialization.IsValid() && info.initialization != common {
			// Use the initializer's location in the message: blank common
			// symbols may have no useful location of their own.
			previous := commonBlockInitializer(ctx.Table, info.initialization)
			msg := ctx.Say(initializerSpan(ctx.Table, initialized), diag.SemaCommonMultipleInit,
				"Multiple initialization of COMMON block /%s/", ctx.Table.Name(common))
			diag.Attach(msg, initializerSpan(ctx.Table, previous),
				"Previous initialization of COMMON block /"+ctx.Table.Name(common)+"/")
		} else {
			info.initialization = common
		}
	}
	biggest := ctx.Table.Symbols.Get(info.biggestSize)
	if sym.Size != biggest.Size && sym.Name != source.NoStringID {
		msg := ctx.Portability(diag.CatDistinctCommonSizes, diag.SemaCommonDistinctSizes, sym.Span,
			"A named COMMON block should have the same size everywhere it appears (%d bytes here)", sym.Size)
		diag.Attach(msg, biggest.Span,
			"Previously defined with a size of "+strconv.FormatUint(biggest.Size, 10)+" bytes")
	}
	if sym.Size > biggest.Size {
		info.biggestSize = common
	}
}

// CommonBlock is one merged block: the representative appearance lowering
// should use and the final (largest observed) storage size.
type CommonBlock struct {
	LinkName string
	Symbol   symbols.SymbolID
	Size     uint64
}

// Blocks finalizes the merge table. The representative is the initialized
// appearance when one exists, else the largest; the size is always the
// largest observed. Results are ordered by link name for determinism.
func (m *CommonBlockMap) Blocks(table *symbols.Table) []CommonBlock {
	out := make([]CommonBlock, 0, len(m.blocks))
	for _, info := range m.blocks {
		representative := info.biggestSize
		if info.initialization.IsValid() {
			representative = info.initialization
		}
		out = append(out, CommonBlock{
			LinkName: info.linkName,
			Symbol:   representative,
			Size:     table.Symbols.Get(info.biggestSize).Size,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LinkName < out[j].LinkName })
	return out
}

// commonLinkName computes the external name the block will have in object
// files. Merging by link name lets BIND(C) and plain appearances of the
// same storage unify instead of clashing later, matching what a linker
// would do with definitions from distinct files.
func commonLinkName(table *symbols.Table, sym *symbols.Symbol, underscoring bool) string {
	if sym.Flags&symbols.FlagBindC != 0 && sym.BindName != source.NoStringID {
		return table.Strings.MustLookup(sym.BindName)
	}
	name := ""
	if sym.Name != source.NoStringID {
		name = table.Strings.MustLookup(sym.Name)
	}
	if name == "" {
		name = blankCommonLinkName
	}
	if underscoring && sym.Flags&symbols.FlagBindC == 0 {
		name += "_"
	}
	return name
}

// commonBlockInitializer returns an initialized member of the block, or an
// initialized non-synthetic symbol that aliases into the block through an
// equivalence set of the enclosing scope. NoSymbolID means the block is not
// initialized.
func commonBlockInitializer(table *symbols.Table, common symbols.SymbolID) symbols.SymbolID {
	sym := table.Symbols.Get(common)
	if sym == nil {
		return symbols.NoSymbolID
	}
	for _, member := range sym.Members {
		if table.IsInitialized(member) {
			return member
		}
	}
	owner := table.Scopes.Get(sym.Scope)
	if owner == nil {
		return symbols.NoSymbolID
	}
	for _, set := range owner.EquivalenceSets {
		for _, obj := range set {
			member := table.Symbols.Get(obj)
			if member == nil || member.Flags&symbols.FlagCompilerCreated != 0 {
				continue
			}
			if table.FindCommonBlockContaining(obj) == common && table.IsInitialized(obj) {
				return obj
			}
		}
	}
	return symbols.NoSymbolID
}

func initializerSpan(table *symbols.Table, sym symbols.SymbolID) source.Span {
	if s := table.Symbols.Get(sym); s != nil {
		return s.Span
	}
	return source.Span{}
}
