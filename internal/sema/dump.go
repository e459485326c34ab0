package sema

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"fern/internal/source"
	"fern/internal/symbols"
)

// DumpSymbols writes the scope tree with its symbols, indented by nesting
// depth. Intended for compiler debugging output.
func (c *Context) DumpSymbols(w io.Writer) {
	c.dumpScope(w, c.Table.Global, 0)
}

func (c *Context) dumpScope(w io.Writer, id symbols.ScopeID, depth int) {
	scope := c.Table.Scopes.Get(id)
	if scope == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	name := c.Table.Name(scope.Symbol)
	header := scope.Kind.String()
	if name != "" {
		header += " " + name
	}
	if scope.Alignment != 0 {
		header += fmt.Sprintf(" size=%d alignment=%d", scope.Size, scope.Alignment)
	}
	if !scope.Span.Empty() {
		header += fmt.Sprintf(" sourceRange=%d bytes", scope.Span.Len())
	}
	if scope.ModuleFile {
		header += " (module file)"
	}
	fmt.Fprintf(w, "%s%s:\n", indent, header)
	for _, symID := range scope.Symbols {
		sym := c.Table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		fmt.Fprintf(w, "%s  %s", indent, c.symbolLabel(symID, sym))
		if sym.Type.Category != symbols.TypeNone {
			fmt.Fprintf(w, " %s(%d)", sym.Type.Category, sym.Type.Kind)
		}
		if sym.Size != 0 {
			fmt.Fprintf(w, " size=%d offset=%d", sym.Size, sym.Offset)
		}
		fmt.Fprintln(w)
	}
	if len(scope.EquivalenceSets) > 0 {
		fmt.Fprintf(w, "%s  Equivalence Sets:", indent)
		for _, set := range scope.EquivalenceSets {
			names := make([]string, 0, len(set))
			for _, member := range set {
				names = append(names, c.Table.Name(member))
			}
			fmt.Fprintf(w, " (%s)", strings.Join(names, ","))
		}
		fmt.Fprintln(w)
	}
	if len(scope.CrayPointers) > 0 {
		var pairs []string
		for pointee, ptr := range scope.CrayPointers {
			pairs = append(pairs, fmt.Sprintf("(%s,%s)",
				c.Table.Strings.MustLookup(pointee), c.Table.Name(ptr)))
		}
		sort.Strings(pairs)
		fmt.Fprintf(w, "%s  Cray Pointers: %s\n", indent, strings.Join(pairs, " "))
	}
	if len(scope.CommonBlocks) > 0 {
		var blocks []string
		for _, blockID := range scope.CommonBlocks {
			block := c.Table.Symbols.Get(blockID)
			name := c.Table.Name(blockID)
			if name == "" {
				name = "//"
			}
			blocks = append(blocks, fmt.Sprintf("%s size=%d", name, block.Size))
		}
		sort.Strings(blocks)
		fmt.Fprintf(w, "%s  Common Blocks: %s\n", indent, strings.Join(blocks, " "))
	}
	for _, child := range scope.Children {
		c.dumpScope(w, child, depth+1)
	}
}

// DumpSymbolsSources writes a flat name-sorted listing of every symbol with
// the source position of its declaration. Symbols that came from a module
// file have no position in this compilation; the defining module's name is
// shown instead.
func (c *Context) DumpSymbolsSources(w io.Writer) {
	type entry struct {
		name  string
		where string
	}
	var entries []entry
	c.eachScope(c.Table.Global, func(scope *symbols.Scope) {
		for _, symID := range scope.Symbols {
			sym := c.Table.Symbols.Get(symID)
			if sym == nil || sym.Flags&symbols.FlagCompilerCreated != 0 {
				continue
			}
			name := c.Table.Name(symID)
			if name == "" {
				continue
			}
			where := ""
			switch {
			case scope.ModuleFile || sym.Flags&symbols.FlagInModuleFile != 0:
				module := c.Table.Name(scope.Symbol)
				if sym.Module != source.NoStringID {
					module = c.Table.Strings.MustLookup(sym.Module)
				}
				where = "module " + module
			case !sym.Span.Empty():
				pos := c.Files.Position(sym.Span.File, sym.Span.Start)
				path := ""
				if f := c.Files.Get(sym.Span.File); f != nil {
					path = f.Path
				}
				where = fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
			}
			entries = append(entries, entry{name: name, where: where})
		}
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	for _, e := range entries {
		if e.where == "" {
			fmt.Fprintln(w, e.name)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", e.name, e.where)
	}
}

func (c *Context) eachScope(id symbols.ScopeID, f func(*symbols.Scope)) {
	scope := c.Table.Scopes.Get(id)
	if scope == nil {
		return
	}
	f(scope)
	for _, child := range scope.Children {
		c.eachScope(child, f)
	}
}

func (c *Context) symbolLabel(id symbols.SymbolID, sym *symbols.Symbol) string {
	name := c.Table.Name(id)
	if name == "" {
		name = "//"
	}
	return fmt.Sprintf("%s: %s", name, sym.Kind)
}
