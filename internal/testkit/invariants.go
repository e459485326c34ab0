// Package testkit holds invariant checkers shared by tests across packages.
package testkit

import (
	"fmt"

	"fern/internal/source"
	"fern/internal/symbols"
)

// CheckScopeInvariants validates the structural invariants of a scope graph:
// 1) every child's parent link points back at its parent
// 2) every non-empty child range lies inside its parent's range
// 3) every symbol's owner link names the scope holding it
func CheckScopeInvariants(table *symbols.Table) error {
	return checkScope(table, table.Global)
}

func checkScope(table *symbols.Table, id symbols.ScopeID) error {
	scope := table.Scopes.Get(id)
	if scope == nil {
		return fmt.Errorf("scope %d not found", id)
	}
	for _, symID := range scope.Symbols {
		sym := table.Symbols.Get(symID)
		if sym == nil {
			return fmt.Errorf("scope %d holds missing symbol %d", id, symID)
		}
		if sym.Scope != id {
			return fmt.Errorf("symbol %q owner is scope %d, held by scope %d",
				table.Name(symID), sym.Scope, id)
		}
	}
	for _, child := range scope.Children {
		cs := table.Scopes.Get(child)
		if cs == nil {
			return fmt.Errorf("scope %d lists missing child %d", id, child)
		}
		if cs.Parent != id {
			return fmt.Errorf("scope %d parent link is %d, want %d", child, cs.Parent, id)
		}
		if !cs.Span.Empty() && !scope.Span.Empty() && !scope.Span.Contains(cs.Span) {
			return fmt.Errorf("child scope range %v escapes parent range %v", cs.Span, scope.Span)
		}
		if err := checkScope(table, child); err != nil {
			return err
		}
	}
	return nil
}

// CheckSpanOrder validates that spans are sorted by (file, start ascending,
// size descending), the ordering the scope location index relies on.
func CheckSpanOrder(spans []source.Span) error {
	for i := 1; i < len(spans); i++ {
		a, b := spans[i-1], spans[i]
		switch {
		case a.File < b.File:
		case a.File > b.File:
			return fmt.Errorf("entry %d: file order violated: %v before %v", i, a, b)
		case a.Start < b.Start:
		case a.Start > b.Start:
			return fmt.Errorf("entry %d: start order violated: %v before %v", i, a, b)
		case a.Len() < b.Len():
			return fmt.Errorf("entry %d: same-start ranges must shrink: %v before %v", i, a, b)
		}
	}
	return nil
}
