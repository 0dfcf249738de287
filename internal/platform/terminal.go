// Package platform names the terminal collaborator by interface only,
// the way the teacher's pkg/platform.Console separates the Platform
// contract from its concrete native backend. The Tui/P5/Term native
// modules depend on Terminal, not on a concrete backend, so tests can
// substitute a fake.
package platform

import (
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
)

// Terminal is the narrow capability surface Term and Tui/P5 need:
// geometry, TTY detection, and screen clearing. It is deliberately
// thinner than a full ratatui/crossterm-style backend — Tui/P5 own
// their own rendering via Bubble Tea programs; Terminal only answers
// "what does the ambient terminal look like right now".
type Terminal interface {
	Cols() int
	Rows() int
	IsTTY() bool
	Clear()
}

// nativeTerminal is the concrete stdout-backed implementation, used
// by the CLI in production. Grounded on the teacher's
// native.NewNativePlatform() split between a Platform interface and
// its OS-backed implementation.
type nativeTerminal struct{}

// NewNativeTerminal returns the concrete terminal backend wired to
// the process's actual stdout file descriptor.
func NewNativeTerminal() Terminal { return nativeTerminal{} }

func (nativeTerminal) Cols() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 80
	}
	return w
}

func (nativeTerminal) Rows() int {
	_, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 24
	}
	return h
}

func (nativeTerminal) IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func (nativeTerminal) Clear() {
	os.Stdout.WriteString("\x1b[2J\x1b[H")
}
