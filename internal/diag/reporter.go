package diag

import "fern/internal/source"

// Reporter is the minimal contract checker passes use to emit diagnostics.
type Reporter interface {
	Report(d Diagnostic) *Diagnostic
}

// BagReporter writes into a *Bag and hands back a pointer for attaching
// notes.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) *Diagnostic {
	if r.Bag == nil {
		return nil
	}
	if !r.Bag.Add(d) {
		return nil
	}
	return r.Bag.Last()
}

// New builds a diagnostic without emitting it.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// NewError is a shortcut for SevError diagnostics.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// NewWarning is a shortcut for categorized SevWarning diagnostics.
func NewWarning(code Code, cat Category, primary source.Span, msg string) Diagnostic {
	d := New(SevWarning, code, primary, msg)
	d.Category = cat
	return d
}

// NewPortability is a shortcut for categorized portability notes.
func NewPortability(code Code, cat Category, primary source.Span, msg string) Diagnostic {
	d := New(SevPortability, code, primary, msg)
	d.Category = cat
	return d
}

// Attach appends a secondary note. It is nil-safe so call chains stay simple
// when the primary diagnostic was dropped by the max-errors cutoff.
func Attach(d *Diagnostic, sp source.Span, msg string) *Diagnostic {
	if d == nil {
		return nil
	}
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
