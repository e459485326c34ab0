package sema

import (
	"fern/internal/diag"
	"fern/internal/symbols"
)

// CheckDeclarations validates attribute consistency of every declared
// entity. It walks the scope graph after offset computation; scopes read
// from module files were validated when their module was compiled and are
// skipped.
func CheckDeclarations(ctx *Context) {
	checkScopeDeclarations(ctx, ctx.Table.Global)
}

func checkScopeDeclarations(ctx *Context, id symbols.ScopeID) {
	scope := ctx.Table.Scopes.Get(id)
	if scope == nil || scope.ModuleFile {
		return
	}
	for _, symID := range scope.Symbols {
		sym := ctx.Table.Symbols.Get(symID)
		if sym == nil || sym.Flags&symbols.FlagCompilerCreated != 0 {
			continue
		}
		checkOneDeclaration(ctx, symID, sym)
	}
	for _, child := range scope.Children {
		checkScopeDeclarations(ctx, child)
	}
}

func checkOneDeclaration(ctx *Context, id symbols.SymbolID, sym *symbols.Symbol) {
	name := ctx.Table.Name(id)
	if sym.Flags&symbols.FlagAllocatable != 0 && sym.Flags&symbols.FlagPointer != 0 {
		ctx.Say(sym.Span, diag.SemaDeclConflict,
			"'%s' may not have both the ALLOCATABLE and POINTER attribute", name)
		ctx.SetError(id, true)
	}
	if sym.Kind == symbols.SymbolParameter && sym.Flags&symbols.FlagInitialized == 0 {
		ctx.Say(sym.Span, diag.SemaParamNoInit,
			"Named constant '%s' must have an initialization", name)
		ctx.SetError(id, true)
	}
	if sym.Flags&symbols.FlagBindC != 0 && sym.Kind == symbols.SymbolObject &&
		sym.Flags&symbols.FlagAllocatable != 0 {
		ctx.Say(sym.Span, diag.SemaDeclConflict,
			"'%s' with BIND(C) may not be ALLOCATABLE", name)
		ctx.SetError(id, true)
	}
}
