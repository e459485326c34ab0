// Package modfile reads and writes compiled module files. A module file is
// a msgpack-encoded snapshot of a module scope's symbol table, enough for a
// consuming translation unit to type-check uses of the module without
// reparsing its source.
package modfile

// Current schema version - increment when payload format changes.
const schemaVersion uint16 = 1

// Extension of emitted module files.
const fileExt = ".mod"

// payload is the on-disk form of one module scope. Symbol cross-references
// are indices into the Symbols slice (-1 for none) so the payload is
// self-contained.
type payload struct {
	Schema  uint16
	Name    string
	Symbols []symbolPayload
	// EquivalenceSets lists storage-sharing groups by symbol index.
	EquivalenceSets [][]int32
	Size            uint64
	Alignment       uint32
}

type symbolPayload struct {
	Name     string
	Kind     uint8
	Flags    uint16
	TypeCat  uint8
	TypeKind uint8
	Rank     uint8
	Size     uint64
	Offset   uint64
	BindName string
	Common   int32
	Members  []int32
	Result   int32
}
