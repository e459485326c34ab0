package symbols

import (
	"fern/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal
	ScopeIntrinsicModules
	ScopeModule
	ScopeMainProgram
	ScopeSubprogram
	ScopeBlockData
	ScopeDerivedType
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "Global"
	case ScopeIntrinsicModules:
		return "IntrinsicModules"
	case ScopeModule:
		return "Module"
	case ScopeMainProgram:
		return "MainProgram"
	case ScopeSubprogram:
		return "Subprogram"
	case ScopeBlockData:
		return "BlockData"
	case ScopeDerivedType:
		return "DerivedType"
	case ScopeBlock:
		return "Block"
	default:
		return "Invalid"
	}
}

// EquivalenceSet is a group of symbols sharing storage.
type EquivalenceSet []SymbolID

// Scope models a lexical scope with a parent-child hierarchy.
//
// Span starts empty and grows monotonically as analysis attributes more
// source to the scope; it is final only once the whole unit is resolved.
// Size/Alignment are filled in by offset computation (Alignment != 0 marks
// them as computed).
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Children  []ScopeID
	Symbol    SymbolID // owning symbol (module, subprogram, ...), if any
	Span      source.Span
	Size      uint64
	Alignment uint32
	// DerivedType names the type description a DerivedType scope
	// instantiates.
	DerivedType source.StringID
	NameIndex   map[source.StringID]SymbolID
	Symbols     []SymbolID // declaration order
	// CommonBlocks maps block name (NoStringID for blank common) to the
	// common-block symbol declared in this scope.
	CommonBlocks    map[source.StringID]SymbolID
	EquivalenceSets []EquivalenceSet
	// CrayPointers maps pointee name to its Cray pointer symbol.
	CrayPointers map[source.StringID]SymbolID
	// ModuleFile marks scopes read back from compiled module files; their
	// contents were already checked when the module was compiled.
	ModuleFile bool
}

// IsGlobal reports whether this is the root scope.
func (s *Scope) IsGlobal() bool { return s.Kind == ScopeGlobal }
