package sema

import (
	"fern/internal/symbols"
)

// ComputeOffsets assigns storage sizes and offsets to every data object,
// sizes each common block from its members, and feeds every sized block into
// the cross-program merge table. It runs once per translation unit, after
// resolution, walking the scope graph rather than the parse tree: by now all
// declarations live in scopes.
func ComputeOffsets(ctx *Context) {
	computeScopeOffsets(ctx, ctx.Table.Global)
}

func computeScopeOffsets(ctx *Context, id symbols.ScopeID) {
	scope := ctx.Table.Scopes.Get(id)
	if scope == nil {
		return
	}
	for _, child := range scope.Children {
		computeScopeOffsets(ctx, child)
	}
	if scope.ModuleFile || scope.Alignment != 0 {
		// Module-file scopes arrive with offsets already computed when the
		// module itself was compiled.
		return
	}

	var offset uint64
	var alignment uint32
	for _, id := range scope.Symbols {
		sym := ctx.Table.Symbols.Get(id)
		if sym == nil || sym.Kind != symbols.SymbolObject && sym.Kind != symbols.SymbolParameter {
			continue
		}
		if sym.Common.IsValid() {
			// Common members get offsets within their block below.
			continue
		}
		size, align := objectStorage(sym)
		offset = alignUp(offset, align)
		sym.Size = size
		sym.Offset = offset
		offset += size
		if uint32(align) > alignment {
			alignment = uint32(align)
		}
	}
	scope.Size = offset
	if alignment == 0 {
		alignment = 1
	}
	scope.Alignment = alignment

	for _, block := range scope.CommonBlocks {
		sizeCommonBlock(ctx, block)
		ctx.MapCommonBlockAndCheckConflicts(block)
	}
}

// sizeCommonBlock lays out the block's members sequentially and records the
// resulting extent as the block symbol's size for this appearance.
func sizeCommonBlock(ctx *Context, block symbols.SymbolID) {
	sym := ctx.Table.Symbols.Get(block)
	if sym == nil {
		return
	}
	var offset uint64
	for _, id := range sym.Members {
		member := ctx.Table.Symbols.Get(id)
		if member == nil {
			continue
		}
		size, align := objectStorage(member)
		offset = alignUp(offset, align)
		member.Size = size
		member.Offset = offset
		offset += size
	}
	sym.Size = offset
}

// objectStorage returns the byte size and alignment of one data object.
// Arrays of unresolved extent contribute one element; their true extent is
// lowering's concern.
func objectStorage(sym *symbols.Symbol) (uint64, uint64) {
	elem := uint64(sym.Type.Kind)
	if elem == 0 {
		elem = uint64(sym.Type.Category.DefaultKind())
	}
	if elem == 0 {
		elem = 1
	}
	if sym.Size > elem {
		// Resolution recorded an explicit extent.
		return sym.Size, elem
	}
	return elem, elem
}

func alignUp(offset, align uint64) uint64 {
	if align == 0 {
		return offset
	}
	if rem := offset % align; rem != 0 {
		return offset + align - rem
	}
	return offset
}
