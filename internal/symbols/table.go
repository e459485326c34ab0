package symbols

import (
	"fern/internal/source"
)

// Hints provide optional capacity suggestions for the arenas.
type Hints struct{ Scopes, Symbols uint32 }

// Table aggregates the scope/symbol arenas and shared resources for one
// translation unit. The global scope and its intrinsic-modules child are
// created eagerly; everything else is added by name resolution and module
// file reading.
type Table struct {
	Scopes           *Scopes
	Symbols          *Symbols
	Strings          *source.Interner
	Global           ScopeID
	IntrinsicModules ScopeID
}

// NewTable builds a fresh table. If strings is nil, a fresh interner is
// allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Scopes:  NewScopes(h.Scopes),
		Symbols: NewSymbols(h.Symbols),
		Strings: strings,
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, source.Span{})
	t.IntrinsicModules = t.Scopes.New(ScopeIntrinsicModules, t.Global, source.Span{})
	return t
}

// Declare adds a symbol to scope, indexing it by name. Unnamed symbols
// (blank common) are appended without a name-index entry.
func (t *Table) Declare(scope ScopeID, sym *Symbol) SymbolID {
	s := t.Scopes.Get(scope)
	if s == nil {
		panic("symbols.Declare: invalid scope")
	}
	sym.Scope = scope
	id := t.Symbols.New(sym)
	s.Symbols = append(s.Symbols, id)
	if sym.Name != source.NoStringID {
		s.NameIndex[sym.Name] = id
	}
	return id
}

// LookupLocal finds name in scope without searching enclosing scopes.
func (t *Table) LookupLocal(scope ScopeID, name source.StringID) SymbolID {
	s := t.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID
	}
	return s.NameIndex[name]
}

// Lookup finds name in scope or any enclosing scope.
func (t *Table) Lookup(scope ScopeID, name source.StringID) SymbolID {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s == nil {
			return NoSymbolID
		}
		if sym, ok := s.NameIndex[name]; ok {
			return sym
		}
		id = s.Parent
	}
	return NoSymbolID
}

// ResolveAssociations follows construct-association links to the underlying
// entity.
func (t *Table) ResolveAssociations(id SymbolID) SymbolID {
	for {
		sym := t.Symbols.Get(id)
		if sym == nil || !sym.Assoc.IsValid() {
			return id
		}
		id = sym.Assoc
	}
}

// FindCommonBlockContaining returns the common block id is a member of, or
// NoSymbolID.
func (t *Table) FindCommonBlockContaining(id SymbolID) SymbolID {
	if sym := t.Symbols.Get(id); sym != nil {
		return sym.Common
	}
	return NoSymbolID
}

// IsInitialized reports whether the symbol carries an initial value.
func (t *Table) IsInitialized(id SymbolID) bool {
	sym := t.Symbols.Get(id)
	return sym != nil && sym.Flags&FlagInitialized != 0
}

// Name returns the symbol's spelling, or "" for blank names.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil || sym.Name == source.NoStringID {
		return ""
	}
	return t.Strings.MustLookup(sym.Name)
}

// IsInModuleFileScope reports whether id's owning scope (or any ancestor)
// originates from a compiled module file.
func (t *Table) IsInModuleFileScope(scope ScopeID) bool {
	for id := scope; id.IsValid(); {
		s := t.Scopes.Get(id)
		if s == nil {
			return false
		}
		if s.ModuleFile {
			return true
		}
		id = s.Parent
	}
	return false
}
