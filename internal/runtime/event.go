package runtime

import (
	"fmt"

	"github.com/qewer33/queitite/internal/token"
)

// ErrKind classifies an interpreter-detected runtime error (§6/§7).
// The string spellings are preserved bit-exact for the `err` native
// global, which parses a kind by exact string match.
type ErrKind string

const (
	TypeErr   ErrKind = "TypeErr"
	NameErr   ErrKind = "NameErr"
	ArityErr  ErrKind = "ArityErr"
	ValueErr  ErrKind = "ValueErr"
	NativeErr ErrKind = "NativeErr"
	IOErr     ErrKind = "IOErr"
)

// ParseErrKind parses a kind by exact string match, as `err(kind, msg)`
// requires. ok is false for any spelling not in the table above.
func ParseErrKind(s string) (ErrKind, bool) {
	switch ErrKind(s) {
	case TypeErr, NameErr, ArityErr, ValueErr, NativeErr, IOErr:
		return ErrKind(s), true
	}
	return "", false
}

// EventKind tags which arm of the RuntimeEvent sum a given event is.
type EventKind int

const (
	EventErr EventKind = iota
	EventUserErr
	EventReturn
	EventBreak
	EventContinue
)

// RuntimeEvent is the unified fallible-result channel every evaluation
// step may raise in place of a Value (§4.1). It is never represented
// as a Go error/panic: callers check Kind explicitly and propagate by
// returning the event unchanged, per SPEC_FULL.md §9's instruction to
// avoid host-language exceptions for control flow.
type RuntimeEvent struct {
	Kind EventKind

	// EventErr / EventUserErr(kind derived implicitly as UserErr)
	ErrorKind ErrKind
	Message   string
	Cursor    token.Cursor
	Note      string

	// EventUserErr payload (any Value, §4.1).
	UserValue Value

	// EventReturn payload.
	ReturnValue Value
}

// NewErr builds an Err{kind, message, cursor} event.
func NewErr(kind ErrKind, cursor token.Cursor, format string, args ...any) *RuntimeEvent {
	return &RuntimeEvent{Kind: EventErr, ErrorKind: kind, Message: fmt.Sprintf(format, args...), Cursor: cursor}
}

// WithNote attaches a friendly note to an Err event and returns it.
func (e *RuntimeEvent) WithNote(note string) *RuntimeEvent {
	e.Note = note
	return e
}

// NewUserErr builds a UserErr{value, cursor} event, raised directly by
// `throw`.
func NewUserErr(value Value, cursor token.Cursor) *RuntimeEvent {
	return &RuntimeEvent{Kind: EventUserErr, UserValue: value, Cursor: cursor}
}

// NewReturn builds a Return(value) event.
func NewReturn(value Value) *RuntimeEvent {
	return &RuntimeEvent{Kind: EventReturn, ReturnValue: value}
}

// BreakEvent and ContinueEvent are the singleton Break/Continue events
// (they carry no payload, so one shared value per kind suffices).
var (
	BreakEvent    = &RuntimeEvent{Kind: EventBreak}
	ContinueEvent = &RuntimeEvent{Kind: EventContinue}
)

// IsControlFlow reports whether the event is Return/Break/Continue
// (i.e. not an error that should be reported to the user).
func (e *RuntimeEvent) IsControlFlow() bool {
	switch e.Kind {
	case EventReturn, EventBreak, EventContinue:
		return true
	}
	return false
}
