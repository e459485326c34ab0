package diag

import (
	"sort"
)

// Bag collects diagnostics for one translation unit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag honoring a max-errors cutoff. max <= 0 means no limit.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add appends a diagnostic unless the max-errors cutoff is reached.
// Returns false if the diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Last returns a pointer into the bag for the most recently added
// diagnostic, or nil when the bag is empty or the diagnostic was dropped by
// the cutoff. Builders use it to attach notes after emission.
func (b *Bag) Last() *Diagnostic {
	if len(b.items) == 0 {
		return nil
	}
	return &b.items[len(b.items)-1]
}

// AnyFatal reports whether any collected diagnostic halts compilation.
// Warnings count as fatal when warningsAreErrors is set and the warning's
// category is enabled.
func (b *Bag) AnyFatal(warningsAreErrors bool, enabled Categories) bool {
	for i := range b.items {
		d := &b.items[i]
		if d.Severity >= SevError {
			return true
		}
		if warningsAreErrors && d.Severity == SevWarning && enabled.Enabled(d.Category) {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning was collected.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, start, end, severity (descending) and
// code, so traversal-ordered messages come out in source order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
