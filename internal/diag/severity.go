package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevPortability is for portability notes; never halts compilation.
	SevPortability Severity = iota
	// SevWarning is for warning diagnostics; may escalate to errors under
	// the warnings-are-errors switch.
	SevWarning
	// SevError is for fatal errors; remaining pipeline stages are skipped.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevPortability:
		return "PORTABILITY"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Category identifies a warning family that can be toggled individually and
// selectively escalated under warnings-are-errors.
type Category uint8

const (
	// CatNone marks diagnostics that belong to no toggleable family.
	CatNone Category = iota
	// CatIndexVarRedefinition covers possible redefinitions of active
	// DO/FORALL index variables.
	CatIndexVarRedefinition
	// CatUndefinedFunctionResult covers function results never given a value.
	CatUndefinedFunctionResult
	// CatDistinctCommonSizes covers named common blocks declared with
	// different sizes across program units.
	CatDistinctCommonSizes

	categoryCount
)

func (c Category) String() string {
	switch c {
	case CatIndexVarRedefinition:
		return "index-var-redefinition"
	case CatUndefinedFunctionResult:
		return "undefined-function-result"
	case CatDistinctCommonSizes:
		return "distinct-common-sizes"
	default:
		return "none"
	}
}

// Categories is the set of enabled warning categories.
type Categories struct {
	enabled [categoryCount]bool
}

// AllCategories returns a set with every warning family enabled.
func AllCategories() Categories {
	var c Categories
	for i := range c.enabled {
		c.enabled[i] = true
	}
	c.enabled[CatNone] = false
	return c
}

// Set toggles one category.
func (c *Categories) Set(cat Category, on bool) {
	if cat > CatNone && cat < categoryCount {
		c.enabled[cat] = on
	}
}

// Enabled reports whether cat is enabled. CatNone is always considered
// enabled so uncategorized warnings are never dropped.
func (c Categories) Enabled(cat Category) bool {
	if cat == CatNone {
		return true
	}
	if cat >= categoryCount {
		return false
	}
	return c.enabled[cat]
}
