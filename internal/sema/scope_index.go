package sema

import (
	"fmt"
	"sort"

	"fern/internal/source"
	"fern/internal/symbols"
)

// ScopeIndex maps source ranges to scopes for fast location-to-scope
// queries. Entries are kept sorted by (file, range start ascending, range
// size descending): when scanning backward from the first key greater than
// a query position, outer scopes starting at the same point are met before
// inner ones, so the first range that contains the position is the most
// specific containing scope.
//
// Lookup costs O(log n) to find the starting point plus O(k) for the
// backward scan over enclosing-scope candidates; k is bounded by nesting in
// practice but has no hard limit.
type ScopeIndex struct {
	entries []scopeIndexEntry
}

type scopeIndexEntry struct {
	span  source.Span
	scope symbols.ScopeID
}

func keyLess(a, b source.Span) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.Len() > b.Len() // larger ranges sort first
}

// Update attributes newSpan to scope. A scope whose range is still empty is
// registered under its provisional position; a scope whose range no longer
// contains the new source is re-keyed under the union so the index always
// reflects current extents. The scope's recorded range grows accordingly.
func (x *ScopeIndex) Update(table *symbols.Table, scope symbols.ScopeID, newSpan source.Span) {
	s := table.Scopes.Get(scope)
	if s == nil || newSpan.Empty() {
		return
	}
	switch {
	case s.Span.Empty():
		s.Span = newSpan
		x.insert(scopeIndexEntry{span: newSpan, scope: scope})
	case !s.Span.Contains(newSpan):
		i := x.locate(s.Span, scope)
		if i < 0 {
			panic(fmt.Sprintf("ScopeIndex.Update: no entry for scope %d", scope))
		}
		x.entries = append(x.entries[:i], x.entries[i+1:]...)
		union := s.Span.Cover(newSpan)
		s.Span = union
		x.insert(scopeIndexEntry{span: union, scope: scope})
	}
}

// Find returns the innermost scope whose current range contains the
// position. Every valid source position lies inside at least the root
// scope's range, so exhausting the index indicates an internal
// inconsistency and aborts.
func (x *ScopeIndex) Find(table *symbols.Table, sp source.Span) symbols.ScopeID {
	if i := x.search(sp); i >= 0 {
		return x.entries[i].scope
	}
	panic(fmt.Sprintf("ScopeIndex.Find: invalid source location %s", sp))
}

// Len returns the number of indexed scopes.
func (x *ScopeIndex) Len() int { return len(x.entries) }

// search returns the entry index of the innermost containing scope, or -1.
func (x *ScopeIndex) search(sp source.Span) int {
	if len(x.entries) == 0 {
		return -1
	}
	// First entry with key strictly greater than the query position.
	i := sort.Search(len(x.entries), func(i int) bool {
		return keyLess(sp, x.entries[i].span)
	})
	for i--; i >= 0; i-- {
		if x.entries[i].span.ContainsPos(sp.File, sp.Start) {
			return i
		}
	}
	return -1
}

// locate finds the entry for a specific scope currently keyed by span,
// starting at the key's lower bound and scanning over equal keys.
func (x *ScopeIndex) locate(span source.Span, scope symbols.ScopeID) int {
	i := sort.Search(len(x.entries), func(i int) bool {
		return !keyLess(x.entries[i].span, span)
	})
	for ; i < len(x.entries); i++ {
		if x.entries[i].scope == scope {
			return i
		}
	}
	return -1
}

func (x *ScopeIndex) insert(e scopeIndexEntry) {
	i := sort.Search(len(x.entries), func(i int) bool {
		return keyLess(e.span, x.entries[i].span)
	})
	x.entries = append(x.entries, scopeIndexEntry{})
	copy(x.entries[i+1:], x.entries[i:])
	x.entries[i] = e
}
