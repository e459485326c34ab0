package sema

import (
	"fern/internal/diag"
	"fern/internal/symbols"
)

// WarnUndefinedFunctionResult reports functions whose result variable was
// never given a value on any path analysis observed. A function with ENTRY
// statements has several result variables; defining any one of them counts,
// since they share storage in practice. Only runs when analysis saw the
// whole unit without fatal errors, otherwise the absence of a definition
// means nothing.
func WarnUndefinedFunctionResult(ctx *Context) {
	warnScopeResults(ctx, ctx.Table.Global)
}

func warnScopeResults(ctx *Context, id symbols.ScopeID) {
	scope := ctx.Table.Scopes.Get(id)
	if scope == nil || scope.ModuleFile {
		return
	}
	if scope.Kind == symbols.ScopeSubprogram {
		warnSubprogramResult(ctx, scope)
	}
	for _, child := range scope.Children {
		warnScopeResults(ctx, child)
	}
}

func warnSubprogramResult(ctx *Context, scope *symbols.Scope) {
	owner := ctx.Table.Symbols.Get(scope.Symbol)
	if owner == nil || owner.Flags&symbols.FlagFunction == 0 {
		return
	}
	results := []symbols.SymbolID{owner.Result}
	for _, id := range scope.Symbols {
		if sym := ctx.Table.Symbols.Get(id); sym != nil && sym.Kind == symbols.SymbolEntry {
			results = append(results, sym.Result)
		}
	}
	any := false
	for _, result := range results {
		if !result.IsValid() {
			continue
		}
		any = true
		if ctx.IsSymbolDefined(ctx.Table.ResolveAssociations(result)) {
			return
		}
		if sym := ctx.Table.Symbols.Get(result); sym != nil &&
			sym.Flags&(symbols.FlagPointer|symbols.FlagAllocatable) != 0 {
			// Pointer and allocatable results are defined by association or
			// allocation, which this analysis does not track.
			return
		}
	}
	if !any {
		return
	}
	ctx.Warn(diag.CatUndefinedFunctionResult, diag.SemaUndefinedFunctionResult, owner.Span,
		"Function result variable '%s' was never defined",
		ctx.Table.Name(owner.Result))
}
