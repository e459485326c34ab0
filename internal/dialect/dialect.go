// Package dialect models the optional language-extension toggles. The
// feature set is resolved once at pipeline construction; canonicalization
// still normalizes every dialect's syntax irrespective of enablement, but
// the dedicated structure-checker traversal for an extension only runs when
// it is enabled.
package dialect

import "fmt"

// Extension identifies an optional language extension.
type Extension uint8

const (
	ExtACC Extension = iota
	ExtOMP
	ExtCUDA

	extensionCount
)

func (e Extension) String() string {
	switch e {
	case ExtACC:
		return "acc"
	case ExtOMP:
		return "omp"
	case ExtCUDA:
		return "cuda"
	default:
		return "unknown"
	}
}

func (e Extension) GoString() string {
	return fmt.Sprintf("Extension(%s)", e.String())
}

// Parse maps a manifest spelling to an Extension.
func Parse(s string) (Extension, bool) {
	switch s {
	case "acc", "openacc":
		return ExtACC, true
	case "omp", "openmp":
		return ExtOMP, true
	case "cuda":
		return ExtCUDA, true
	}
	return 0, false
}

// Features is the resolved set of enabled extensions.
type Features struct {
	enabled [extensionCount]bool
}

// Enable turns an extension on.
func (f *Features) Enable(e Extension) {
	if e < extensionCount {
		f.enabled[e] = true
	}
}

// Enabled reports whether e is on.
func (f Features) Enabled(e Extension) bool {
	return e < extensionCount && f.enabled[e]
}
