// Package resolve builds the scope graph and binds every name occurrence to
// a symbol. It owns implicit typing: a name used without a declaration gets
// the default type its first letter implies. Resolution is the only stage
// that creates scopes, so it also feeds every statement's source extent into
// the scope location index through the Indexer it is given.
package resolve

import (
	"fmt"

	"fern/internal/ast"
	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

// Indexer receives scope extents as resolution attributes source to scopes.
type Indexer interface {
	UpdateScopeIndex(scope symbols.ScopeID, span source.Span)
}

// ResolveNames resolves one program tree into table, reporting errors
// through rep. It returns false when any fatal error was reported.
func ResolveNames(table *symbols.Table, rep diag.Reporter, index Indexer, program *ast.Node) bool {
	r := &resolver{table: table, rep: rep, index: index, ok: true}
	for _, unit := range program.Children {
		r.unit(unit)
	}
	return r.ok
}

type resolver struct {
	table *symbols.Table
	rep   diag.Reporter
	index Indexer
	scope symbols.ScopeID
	ok    bool
}

func (r *resolver) error(sp source.Span, code diag.Code, format string, args ...any) *diag.Diagnostic {
	r.ok = false
	return r.rep.Report(diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}

func (r *resolver) unit(unit *ast.Node) {
	var kind symbols.ScopeKind
	var symKind symbols.SymbolKind
	switch unit.Kind {
	case ast.KindMainProgram:
		kind, symKind = symbols.ScopeMainProgram, symbols.SymbolMainProgram
	case ast.KindModule:
		kind, symKind = symbols.ScopeModule, symbols.SymbolModule
	case ast.KindFunctionSubprogram, ast.KindSubroutineSubprogram:
		kind, symKind = symbols.ScopeSubprogram, symbols.SymbolSubprogram
	case ast.KindBlockData:
		kind, symKind = symbols.ScopeBlockData, symbols.SymbolModule
	default:
		return
	}

	// The scope starts with an empty range at the unit's position; the index
	// registers it on the first UpdateScopeIndex call and grows it from there.
	scope := r.table.Scopes.New(kind, r.table.Global, source.Span{File: unit.Span.File, Start: unit.Span.Start, End: unit.Span.Start})
	owner := &symbols.Symbol{Name: ast.UnitName(unit), Kind: symKind, Span: unit.Span}
	switch unit.Kind {
	case ast.KindFunctionSubprogram:
		owner.Flags |= symbols.FlagFunction
	case ast.KindSubroutineSubprogram:
		owner.Flags |= symbols.FlagSubroutine
	}
	if unit.Attrs&ast.AttrPure != 0 {
		owner.Flags |= symbols.FlagPure
	}
	ownerID := r.table.Declare(r.table.Global, owner)
	r.table.Scopes.Get(scope).Symbol = ownerID
	unit.Sym = ownerID

	prev := r.scope
	r.scope = scope
	r.index.UpdateScopeIndex(scope, unit.Span)

	if unit.Kind == ast.KindFunctionSubprogram {
		r.declareResult(unit, ownerID)
	}
	for _, part := range unit.Children {
		r.part(part)
	}
	r.scope = prev
}

// declareResult creates the function's result variable, spelled like the
// function itself, typed by implicit rules until a declaration overrides it.
func (r *resolver) declareResult(unit *ast.Node, owner symbols.SymbolID) {
	name := ast.UnitName(unit)
	result := r.table.Declare(r.scope, &symbols.Symbol{
		Name:  name,
		Kind:  symbols.SymbolObject,
		Span:  unit.Span,
		Type:  r.implicitType(name),
		Flags: symbols.FlagImplicit,
	})
	r.table.Symbols.Get(owner).Result = result
}

func (r *resolver) part(n *ast.Node) {
	switch n.Kind {
	case ast.KindSpecificationPart, ast.KindExecutionPart:
		for _, stmt := range n.Children {
			r.statement(stmt)
		}
	}
}

func (r *resolver) statement(n *ast.Node) {
	if n.Kind.IsStatement() {
		r.index.UpdateScopeIndex(r.scope, n.Span)
	}
	switch n.Kind {
	case ast.KindTypeDeclarationStmt:
		r.typeDeclaration(n)
	case ast.KindCommonStmt:
		for _, decl := range n.Children {
			if decl.Kind == ast.KindCommonBlockDecl {
				r.commonBlock(decl)
			}
		}
	case ast.KindEquivalenceStmt:
		r.equivalence(n)
	case ast.KindCrayPointerStmt:
		r.crayPointer(n)
	case ast.KindNamelistStmt:
		r.namelist(n)
	case ast.KindEntryStmt:
		r.entry(n)
	case ast.KindBlockConstruct:
		r.block(n)
	default:
		r.bindNames(n)
	}
}

func (r *resolver) typeDeclaration(n *ast.Node) {
	for _, decl := range n.Children {
		if decl.Kind != ast.KindEntityDecl {
			continue
		}
		name := decl.Name
		kind := symbols.SymbolObject
		if decl.Attrs&ast.AttrParameter != 0 {
			kind = symbols.SymbolParameter
		}
		if existing := r.table.LookupLocal(r.scope, name); existing.IsValid() {
			sym := r.table.Symbols.Get(existing)
			if sym.Flags&symbols.FlagImplicit != 0 {
				// An implicit prior use, or the function result: the
				// declaration refines it in place.
				sym.Flags &^= symbols.FlagImplicit
				sym.Type = decl.Type
				sym.Span = decl.Span
				r.applyAttrs(sym, decl.Attrs)
				decl.Sym = existing
				continue
			}
			msg := r.error(decl.Span, diag.SemaDuplicateName,
				"'%s' is already declared in this scoping unit", r.table.Strings.MustLookup(name))
			diag.Attach(msg, sym.Span, "Previous declaration of '"+r.table.Strings.MustLookup(name)+"'")
			continue
		}
		sym := &symbols.Symbol{Name: name, Kind: kind, Span: decl.Span, Type: decl.Type}
		r.applyAttrs(sym, decl.Attrs)
		decl.Sym = r.table.Declare(r.scope, sym)
	}
}

func (r *resolver) applyAttrs(sym *symbols.Symbol, attrs ast.DeclAttr) {
	if attrs&ast.AttrAllocatable != 0 {
		sym.Flags |= symbols.FlagAllocatable
	}
	if attrs&ast.AttrPointer != 0 {
		sym.Flags |= symbols.FlagPointer
	}
	if attrs&ast.AttrSave != 0 {
		sym.Flags |= symbols.FlagSave
	}
	if attrs&ast.AttrBindC != 0 {
		sym.Flags |= symbols.FlagBindC
	}
	if attrs&ast.AttrInitialized != 0 {
		sym.Flags |= symbols.FlagInitialized
	}
}

// commonBlock declares the block symbol (or finds this scope's existing one)
// and attaches the listed members to it.
func (r *resolver) commonBlock(decl *ast.Node) {
	scope := r.table.Scopes.Get(r.scope)
	if scope.CommonBlocks == nil {
		scope.CommonBlocks = make(map[source.StringID]symbols.SymbolID)
	}
	block, seen := scope.CommonBlocks[decl.Name]
	if !seen {
		sym := &symbols.Symbol{Name: decl.Name, Kind: symbols.SymbolCommonBlock, Span: decl.Span}
		if decl.Attrs&ast.AttrBindC != 0 {
			sym.Flags |= symbols.FlagBindC
			if bind := decl.FindChild(ast.KindLiteralExpr); bind != nil {
				sym.BindName = bind.Name
			}
		}
		block = r.table.Declare(r.scope, sym)
		scope.CommonBlocks[decl.Name] = block
	}
	decl.Sym = block
	for _, member := range decl.Children {
		if member.Kind != ast.KindNameExpr {
			continue
		}
		r.bindName(member)
		if !member.Sym.IsValid() {
			continue
		}
		// Re-fetch after bindName: a first use may have grown the arena.
		obj := r.table.Symbols.Get(member.Sym)
		if obj.Common.IsValid() && obj.Common != block {
			r.error(member.Span, diag.SemaDuplicateName,
				"'%s' is already a member of another COMMON block",
				r.table.Name(member.Sym))
			continue
		}
		obj.Common = block
		blockSym := r.table.Symbols.Get(block)
		blockSym.Members = append(blockSym.Members, member.Sym)
	}
}

func (r *resolver) equivalence(n *ast.Node) {
	var set symbols.EquivalenceSet
	for _, obj := range n.Children {
		if obj.Kind != ast.KindNameExpr {
			continue
		}
		r.bindName(obj)
		if obj.Sym.IsValid() {
			set = append(set, obj.Sym)
		}
	}
	if len(set) > 1 {
		scope := r.table.Scopes.Get(r.scope)
		scope.EquivalenceSets = append(scope.EquivalenceSets, set)
	}
}

// crayPointer binds (pointer, pointee) pairs and records them in the scope's
// aliasing table. The pointer holds an address, so it is default INTEGER no
// matter how it is spelled; a prior implicit use is retyped in place.
func (r *resolver) crayPointer(n *ast.Node) {
	scope := r.table.Scopes.Get(r.scope)
	if scope.CrayPointers == nil {
		scope.CrayPointers = make(map[source.StringID]symbols.SymbolID)
	}
	for i := 0; i+1 < len(n.Children); i += 2 {
		ptr, pointee := n.Children[i], n.Children[i+1]
		if ptr.Kind != ast.KindNameExpr || pointee.Kind != ast.KindNameExpr {
			continue
		}
		r.bindName(ptr)
		r.bindName(pointee)
		if !ptr.Sym.IsValid() || !pointee.Sym.IsValid() {
			continue
		}
		ptrSym := r.table.Symbols.Get(ptr.Sym)
		ptrSym.Type = symbols.Type{Category: symbols.TypeInteger, Kind: symbols.TypeInteger.DefaultKind()}
		if prev, seen := scope.CrayPointers[pointee.Name]; seen && prev != ptr.Sym {
			msg := r.error(pointee.Span, diag.SemaDuplicateName,
				"'%s' was already declared as a Cray pointee",
				r.table.Name(pointee.Sym))
			diag.Attach(msg, r.table.Symbols.Get(prev).Span, "Previous Cray pointer of this pointee")
			continue
		}
		scope.CrayPointers[pointee.Name] = ptr.Sym
	}
}

func (r *resolver) namelist(n *ast.Node) {
	group := &symbols.Symbol{Name: n.Name, Kind: symbols.SymbolNamelist, Span: n.Span}
	id := r.table.Declare(r.scope, group)
	n.Sym = id
	for _, member := range n.Children {
		if member.Kind != ast.KindNameExpr {
			continue
		}
		r.bindName(member)
		if member.Sym.IsValid() {
			r.table.Symbols.Get(id).Members = append(r.table.Symbols.Get(id).Members, member.Sym)
		}
	}
}

// entry declares the ENTRY's global name plus its local result variable when
// the enclosing subprogram is a function.
func (r *resolver) entry(n *ast.Node) {
	sym := &symbols.Symbol{Name: n.Name, Kind: symbols.SymbolEntry, Span: n.Span}
	owner := r.table.Scopes.Get(r.scope)
	if ownerSym := r.table.Symbols.Get(owner.Symbol); ownerSym != nil &&
		ownerSym.Flags&symbols.FlagFunction != 0 {
		sym.Flags |= symbols.FlagFunction
		sym.Result = r.table.Declare(r.scope, &symbols.Symbol{
			Name:  n.Name,
			Kind:  symbols.SymbolObject,
			Span:  n.Span,
			Type:  r.implicitType(n.Name),
			Flags: symbols.FlagImplicit,
		})
	}
	n.Sym = r.table.Declare(r.scope, sym)
}

// block opens a nested Block scope for a BLOCK construct and resolves its
// contents inside it.
func (r *resolver) block(n *ast.Node) {
	scope := r.table.Scopes.New(symbols.ScopeBlock, r.scope, source.Span{File: n.Span.File, Start: n.Span.Start, End: n.Span.Start})
	prev := r.scope
	r.scope = scope
	r.index.UpdateScopeIndex(scope, n.Span)
	for _, part := range n.Children {
		if part.Kind == ast.KindSpecificationPart || part.Kind == ast.KindExecutionPart {
			r.part(part)
		} else {
			r.statement(part)
		}
	}
	r.scope = prev
}

// bindNames binds every name expression in the statement's subtree,
// descending into nested constructs so their statements also index their
// extents.
func (r *resolver) bindNames(n *ast.Node) {
	if n.Kind == ast.KindNameExpr {
		r.bindName(n)
		return
	}
	if n.Kind.IsConstruct() && n.Kind != ast.KindBlockConstruct {
		for _, c := range n.Children {
			r.statement(c)
		}
		return
	}
	for _, c := range n.Children {
		r.bindNames(c)
	}
}

// bindName resolves one identifier occurrence, creating an implicitly typed
// object on first use.
func (r *resolver) bindName(n *ast.Node) {
	if n.Sym.IsValid() {
		return
	}
	if id := r.table.Lookup(r.scope, n.Name); id.IsValid() {
		n.Sym = id
		return
	}
	n.Sym = r.table.Declare(r.scope, &symbols.Symbol{
		Name:  n.Name,
		Kind:  symbols.SymbolObject,
		Span:  n.Span,
		Type:  r.implicitType(n.Name),
		Flags: symbols.FlagImplicit,
	})
}

// implicitType applies the default implicit rules: names starting with I
// through N are default INTEGER, everything else default REAL.
func (r *resolver) implicitType(name source.StringID) symbols.Type {
	spelled := r.table.Strings.MustLookup(name)
	if spelled == "" {
		return symbols.Type{}
	}
	first := spelled[0] | 0x20
	if first >= 'i' && first <= 'n' {
		return symbols.Type{Category: symbols.TypeInteger, Kind: symbols.TypeInteger.DefaultKind()}
	}
	return symbols.Type{Category: symbols.TypeReal, Kind: symbols.TypeReal.DefaultKind()}
}
