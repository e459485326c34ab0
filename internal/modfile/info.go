package modfile

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"fern/internal/symbols"
)

// Info is the decoded summary of one module file, for tooling that inspects
// a file without loading it into a symbol table.
type Info struct {
	Name      string
	Schema    uint16
	Size      uint64
	Alignment uint32
	Symbols   []SymbolInfo
}

// SymbolInfo is one symbol entry of an inspected module file.
type SymbolInfo struct {
	Name string
	Kind symbols.SymbolKind
	Type symbols.Type
	Rank uint8
	Size uint64
}

// Inspect decodes the module file at path.
func Inspect(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%s: corrupt module file: %w", path, err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: unsupported schema %d (want %d)", path, p.Schema, schemaVersion)
	}
	info := &Info{Name: p.Name, Schema: p.Schema, Size: p.Size, Alignment: p.Alignment}
	for _, sp := range p.Symbols {
		info.Symbols = append(info.Symbols, SymbolInfo{
			Name: sp.Name,
			Kind: symbols.SymbolKind(sp.Kind),
			Type: symbols.Type{Category: symbols.TypeCategory(sp.TypeCat), Kind: sp.TypeKind},
			Rank: sp.Rank,
			Size: sp.Size,
		})
	}
	return info, nil
}
