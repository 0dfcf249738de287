// Package diagnostics renders parse errors and unhandled RuntimeEvents
// as human-readable text, in the style of this lineage's
// internal/errors.CompilerError / FormatErrors.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/qewer33/queitite/internal/parser"
	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
	colorBold   = "\x1b[1m"
)

// Diagnostic is a reporter-facing view of a RuntimeEvent's error arm or
// a single parse error: {kind, message, cursor, optional note}.
type Diagnostic struct {
	Kind    string
	Message string
	Cursor  token.Cursor
	Note    string
}

// FromEvent builds a Diagnostic from an Err or UserErr RuntimeEvent.
// A Return/Break/Continue event carries no error kind or message, so it
// yields a Diagnostic with an empty Kind and Message; evaluator.Run
// converts such events to Err{Value} before they reach the top level.
func FromEvent(ev *runtime.RuntimeEvent) Diagnostic {
	if ev.Kind == runtime.EventUserErr {
		return Diagnostic{Kind: "UserErr", Message: ev.UserValue.String(), Cursor: ev.Cursor}
	}
	return Diagnostic{Kind: string(ev.ErrorKind), Message: ev.Message, Cursor: ev.Cursor, Note: ev.Note}
}

// FromParseError builds a Diagnostic from a parser.ParseError.
func FromParseError(e *parser.ParseError) Diagnostic {
	return Diagnostic{Kind: "ParseErr", Message: e.Message, Cursor: e.Pos, Note: e.Note}
}

// Format renders a single diagnostic as `<Kind>: <message>` followed by
// the source line with a caret under the offending column, and the
// note if present. source may be empty, in which case the source line
// and caret are omitted and only the kind/message/position line (and
// the note, if any) is printed.
func (d Diagnostic) Format(source string, color bool) string {
	var b strings.Builder
	if color {
		fmt.Fprintf(&b, "%s%s%s: %s (%s)\n", colorRed, d.Kind, colorReset, d.Message, d.Cursor)
	} else {
		fmt.Fprintf(&b, "%s: %s (%s)\n", d.Kind, d.Message, d.Cursor)
	}
	if line := sourceLine(source, d.Cursor.Line); line != "" {
		b.WriteString(line)
		b.WriteByte('\n')
		if d.Cursor.Column > 0 {
			b.WriteString(strings.Repeat(" ", d.Cursor.Column-1))
			b.WriteString("^\n")
		}
	}
	if d.Note != "" {
		if color {
			fmt.Fprintf(&b, "%snote:%s %s\n", colorYellow, colorReset, d.Note)
		} else {
			fmt.Fprintf(&b, "note: %s\n", d.Note)
		}
	}
	return b.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatBatch renders a batch of diagnostics the way the teacher's
// FormatErrors numbers multi-error output: "[Error N of M]" headers
// between entries when there is more than one.
func FormatBatch(diags []Diagnostic, source string, color bool) string {
	var b strings.Builder
	for i, d := range diags {
		if len(diags) > 1 {
			if color {
				fmt.Fprintf(&b, "%s[Error %d of %d]%s\n", colorBold, i+1, len(diags), colorReset)
			} else {
				fmt.Fprintf(&b, "[Error %d of %d]\n", i+1, len(diags))
			}
		}
		b.WriteString(d.Format(source, color))
	}
	return b.String()
}
