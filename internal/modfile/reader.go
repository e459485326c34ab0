package modfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

// Reader loads compiled module files into the symbol table. Each read
// populates a fresh scope marked ModuleFile; callers memoize results so a
// given module is loaded at most once per compilation.
type Reader struct {
	table    *symbols.Table
	reporter diag.Reporter
	dirs     []string
}

func NewReader(table *symbols.Table, reporter diag.Reporter, dirs []string) *Reader {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	return &Reader{table: table, reporter: reporter, dirs: dirs}
}

// Read loads the module file for name. Intrinsic modules land under the
// intrinsic-modules scope, others under the global scope. When silent, a
// missing or unreadable file yields NoScopeID without a diagnostic.
func (r *Reader) Read(name string, intrinsic, silent bool) symbols.ScopeID {
	data, err := r.find(name)
	if err != nil {
		if !silent {
			r.reporter.Report(diag.NewError(diag.ModReadError, source.Span{},
				fmt.Sprintf("Cannot read module file for '%s': %v", name, err)))
		}
		return symbols.NoScopeID
	}
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		if !silent {
			r.reporter.Report(diag.NewError(diag.ModReadError, source.Span{},
				fmt.Sprintf("Corrupt module file for '%s': %v", name, err)))
		}
		return symbols.NoScopeID
	}
	if p.Schema != schemaVersion {
		if !silent {
			r.reporter.Report(diag.NewError(diag.ModReadError, source.Span{},
				fmt.Sprintf("Module file for '%s' has unsupported schema %d", name, p.Schema)))
		}
		return symbols.NoScopeID
	}
	return r.populate(name, intrinsic, &p)
}

func (r *Reader) find(name string) ([]byte, error) {
	var firstErr error
	for _, dir := range r.dirs {
		data, err := os.ReadFile(filepath.Join(dir, name+fileExt))
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = errors.New("no module directories configured")
	}
	return nil, firstErr
}

func (r *Reader) populate(name string, intrinsic bool, p *payload) symbols.ScopeID {
	parent := r.table.Global
	if intrinsic {
		parent = r.table.IntrinsicModules
	}
	scopeID := r.table.Scopes.New(symbols.ScopeModule, parent, source.Span{})
	scope := r.table.Scopes.Get(scopeID)
	scope.ModuleFile = true
	scope.Size = p.Size
	scope.Alignment = p.Alignment

	moduleName := r.table.Strings.Intern(name)
	moduleSym := r.table.Declare(parent, &symbols.Symbol{
		Name:  moduleName,
		Kind:  symbols.SymbolModule,
		Flags: symbols.FlagInModuleFile,
	})
	scope.Symbol = moduleSym

	ids := make([]symbols.SymbolID, len(p.Symbols))
	for i := range p.Symbols {
		sp := &p.Symbols[i]
		sym := symbols.Symbol{
			Name:   r.table.Strings.Intern(sp.Name),
			Kind:   symbols.SymbolKind(sp.Kind),
			Flags:  symbols.SymbolFlags(sp.Flags) | symbols.FlagInModuleFile,
			Type:   symbols.Type{Category: symbols.TypeCategory(sp.TypeCat), Kind: sp.TypeKind},
			Rank:   sp.Rank,
			Size:   sp.Size,
			Offset: sp.Offset,
			Module: moduleName,
		}
		if sp.BindName != "" {
			sym.BindName = r.table.Strings.Intern(sp.BindName)
		}
		ids[i] = r.table.Declare(scopeID, &sym)
	}
	// Second pass for cross-references now that all IDs exist.
	for i := range p.Symbols {
		sp := &p.Symbols[i]
		sym := r.table.Symbols.Get(ids[i])
		if sp.Common >= 0 && int(sp.Common) < len(ids) {
			sym.Common = ids[sp.Common]
		}
		if sp.Result >= 0 && int(sp.Result) < len(ids) {
			sym.Result = ids[sp.Result]
		}
		for _, m := range sp.Members {
			if m >= 0 && int(m) < len(ids) {
				sym.Members = append(sym.Members, ids[m])
			}
		}
	}
	for _, set := range p.EquivalenceSets {
		var out symbols.EquivalenceSet
		for _, m := range set {
			if m >= 0 && int(m) < len(ids) {
				out = append(out, ids[m])
			}
		}
		if len(out) > 1 {
			scope.EquivalenceSets = append(scope.EquivalenceSets, out)
		}
	}
	return scopeID
}
