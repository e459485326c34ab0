package modfile

import (
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"fern/internal/diag"
	"fern/internal/source"
	"fern/internal/symbols"
)

// Writer emits one module file per compiled module scope. It runs as the
// final pipeline stage, after all semantic checks have passed.
type Writer struct {
	table    *symbols.Table
	reporter diag.Reporter
	outDir   string
	hermetic bool
}

func NewWriter(table *symbols.Table, reporter diag.Reporter, outDir string) *Writer {
	if outDir == "" {
		outDir = "."
	}
	return &Writer{table: table, reporter: reporter, outDir: outDir}
}

// SetHermetic includes dependency module scopes in the output so the emitted
// files are self-contained.
func (w *Writer) SetHermetic(hermetic bool) *Writer {
	w.hermetic = hermetic
	return w
}

// WriteAll writes module files for every module scope of the compiled
// program. Returns false if any file could not be written.
func (w *Writer) WriteAll() bool {
	ok := true
	global := w.table.Scopes.Get(w.table.Global)
	for _, child := range global.Children {
		scope := w.table.Scopes.Get(child)
		if scope == nil || scope.Kind != symbols.ScopeModule {
			continue
		}
		if scope.ModuleFile && !w.hermetic {
			continue
		}
		if !w.writeScope(scope) {
			ok = false
		}
	}
	return ok
}

func (w *Writer) writeScope(scope *symbols.Scope) bool {
	name := w.table.Name(scope.Symbol)
	if name == "" {
		return true
	}
	p := w.encode(name, scope)
	data, err := msgpack.Marshal(p)
	if err != nil {
		w.reportWriteError(scope, name, err)
		return false
	}
	path := filepath.Join(w.outDir, name+fileExt)
	if err := writeAtomic(path, data); err != nil {
		w.reportWriteError(scope, name, err)
		return false
	}
	return true
}

func (w *Writer) encode(name string, scope *symbols.Scope) *payload {
	p := &payload{
		Schema:    schemaVersion,
		Name:      name,
		Size:      scope.Size,
		Alignment: scope.Alignment,
	}
	index := make(map[symbols.SymbolID]int32, len(scope.Symbols))
	for i, id := range scope.Symbols {
		index[id] = int32(i)
	}
	for _, id := range scope.Symbols {
		sym := w.table.Symbols.Get(id)
		sp := symbolPayload{
			Name:     w.table.Name(id),
			Kind:     uint8(sym.Kind),
			Flags:    uint16(sym.Flags),
			TypeCat:  uint8(sym.Type.Category),
			TypeKind: sym.Type.Kind,
			Rank:     sym.Rank,
			Size:     sym.Size,
			Offset:   sym.Offset,
			Common:   indexOf(index, sym.Common),
			Result:   indexOf(index, sym.Result),
		}
		if sym.BindName != source.NoStringID {
			sp.BindName = w.table.Strings.MustLookup(sym.BindName)
		}
		for _, m := range sym.Members {
			if mi, ok := index[m]; ok {
				sp.Members = append(sp.Members, mi)
			}
		}
		p.Symbols = append(p.Symbols, sp)
	}
	for _, set := range scope.EquivalenceSets {
		var out []int32
		for _, m := range set {
			if mi, ok := index[m]; ok {
				out = append(out, mi)
			}
		}
		if len(out) > 1 {
			p.EquivalenceSets = append(p.EquivalenceSets, out)
		}
	}
	return p
}

func (w *Writer) reportWriteError(scope *symbols.Scope, name string, err error) {
	if w.reporter == nil {
		return
	}
	w.reporter.Report(diag.NewError(diag.ModWriteError, scope.Span,
		"Cannot write module file for '"+name+"': "+err.Error()))
}

func indexOf(index map[symbols.SymbolID]int32, id symbols.SymbolID) int32 {
	if i, ok := index[id]; ok {
		return i
	}
	return -1
}

// writeAtomic writes via a temp file and rename so readers never observe a
// partial module file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
