package symbols

import (
	"fern/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolMainProgram
	SymbolSubprogram
	SymbolObject
	SymbolParameter
	SymbolCommonBlock
	SymbolDerivedType
	SymbolNamelist
	SymbolEntry
	SymbolUse // use-imported from another module
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolMainProgram:
		return "main-program"
	case SymbolSubprogram:
		return "subprogram"
	case SymbolObject:
		return "object"
	case SymbolParameter:
		return "parameter"
	case SymbolCommonBlock:
		return "common-block"
	case SymbolDerivedType:
		return "derived-type"
	case SymbolNamelist:
		return "namelist"
	case SymbolEntry:
		return "entry"
	case SymbolUse:
		return "use"
	default:
		return "invalid"
	}
}

// TypeCategory classifies intrinsic types.
type TypeCategory uint8

const (
	TypeNone TypeCategory = iota
	TypeInteger
	TypeReal
	TypeComplex
	TypeCharacter
	TypeLogical
	TypeDerived
)

func (c TypeCategory) String() string {
	switch c {
	case TypeInteger:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeComplex:
		return "COMPLEX"
	case TypeCharacter:
		return "CHARACTER"
	case TypeLogical:
		return "LOGICAL"
	case TypeDerived:
		return "TYPE"
	default:
		return "NONE"
	}
}

// DefaultKind returns the default kind parameter for a type category.
func (c TypeCategory) DefaultKind() uint8 {
	switch c {
	case TypeInteger, TypeReal, TypeLogical:
		return 4
	case TypeComplex:
		return 8
	case TypeCharacter:
		return 1
	default:
		return 0
	}
}

// Type is a (category, kind) pair.
type Type struct {
	Category TypeCategory
	Kind     uint8
}

// SymbolFlags encode boolean attributes for quick checks.
type SymbolFlags uint16

const (
	FlagInitialized SymbolFlags = 1 << iota
	FlagCompilerCreated
	FlagBindC
	FlagFunction
	FlagSubroutine
	FlagIntrinsic
	FlagAllocatable
	FlagPointer
	FlagSave
	FlagPure
	FlagInModuleFile
	FlagImplicit
)

// Symbol describes a named entity declared in a scope. Symbols are owned by
// their declaring scope's arena slot and referenced everywhere else by ID.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID // owner
	Span  source.Span
	Flags SymbolFlags
	Type  Type
	Rank  uint8
	// Size and Offset are filled by offset computation. For common-block
	// symbols Size is the block's storage size in this appearance.
	Size   uint64
	Offset uint64
	// Common references the common block this object is a member of.
	Common SymbolID
	// Members lists common-block or namelist members in declaration order.
	Members []SymbolID
	// BindName is the explicit BIND(C, NAME=...) binding label.
	BindName source.StringID
	// Result references a function subprogram's result symbol.
	Result SymbolID
	// Assoc references the underlying entity for construct associations;
	// ResolveAssociations follows this chain.
	Assoc SymbolID
	// Module names the defining module for use-imported symbols.
	Module source.StringID
}
