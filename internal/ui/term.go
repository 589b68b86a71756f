// File: internal/ui/term.go
// Brief: Internal ui package implementation for 'terminal helpers'.

package ui

import (
	"io"

	"golang.org/x/term"
)

// defaultConsoleWidth is assumed when the writer is not a terminal.
const defaultConsoleWidth = 120

// TerminalWidth reports the column count of w when it is a terminal.
func TerminalWidth(w io.Writer) (int, bool) {
	type fdProvider interface {
		Fd() uintptr
	}
	if v, ok := w.(fdProvider); ok {
		if cols, _, err := term.GetSize(int(v.Fd())); err == nil {
			return cols, true
		}
	}
	return 0, false
}

// ConsoleWidth returns the terminal width of w, or the default when w is not
// a terminal.
func ConsoleWidth(w io.Writer) int {
	if cols, ok := TerminalWidth(w); ok && cols > 0 {
		return cols
	}
	return defaultConsoleWidth
}
