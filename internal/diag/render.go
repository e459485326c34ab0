package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"fern/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	portColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgHiBlack)
)

// Emit renders collected diagnostics to w in source order, optionally
// echoing the offending source line. Colors follow color.NoColor.
func Emit(w io.Writer, b *Bag, fs *source.FileSet, echoSourceLine bool) {
	b.Sort()
	for i := range b.Items() {
		d := &b.Items()[i]
		emitOne(w, d, fs, echoSourceLine)
	}
}

func emitOne(w io.Writer, d *Diagnostic, fs *source.FileSet, echo bool) {
	fmt.Fprintf(w, "%s: %s: %s [%s]\n",
		location(fs, d.Primary), severityLabel(d.Severity), d.Message, d.Code)
	if echo {
		echoLine(w, fs, d.Primary)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s: %s: %s\n", location(fs, n.Span), noteColor.Sprint("note"), n.Msg)
		if echo {
			echoLine(w, fs, n.Span)
		}
	}
}

func severityLabel(s Severity) string {
	switch s {
	case SevError:
		return errorColor.Sprint("error")
	case SevWarning:
		return warningColor.Sprint("warning")
	default:
		return portColor.Sprint("portability")
	}
}

func location(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return sp.String()
	}
	f := fs.Get(sp.File)
	if f == nil {
		return sp.String()
	}
	lc := fs.Position(sp.File, sp.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, lc.Line, lc.Col)
}

func echoLine(w io.Writer, fs *source.FileSet, sp source.Span) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil || int(sp.Start) > len(f.Content) {
		return
	}
	start := strings.LastIndexByte(string(f.Content[:sp.Start]), '\n') + 1
	end := int(sp.Start)
	for end < len(f.Content) && f.Content[end] != '\n' {
		end++
	}
	fmt.Fprintf(w, "  | %s\n", string(f.Content[start:end]))
}
