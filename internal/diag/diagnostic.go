package diag

import (
	"fern/internal/source"
)

// Note attaches secondary context (a previous declaration, an enclosing
// construct) to a diagnostic so tooling can render them together.
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Category Category
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
