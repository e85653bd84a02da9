package tui

import (
	"os"

	"golang.org/x/term"
)

// New returns the huh forms on an interactive terminal and the line-based
// prompts otherwise.
func New() UI {
	return NewWithFallback(false)
}

// NewWithFallback is New with --no-tui applied: noTUI always selects the
// line-based prompts.
func NewWithFallback(noTUI bool) UI {
	if noTUI || !IsTerminal() {
		return NewFallbackUI()
	}

	return NewHuhUI()
}

// IsTerminal reports whether stdin and stdout are both terminals. The huh
// forms read keys from stdin and redraw on stdout, so they need both.
func IsTerminal() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	//nolint:gosec // G115: file descriptors are always small positive integers
	return term.IsTerminal(int(f.Fd()))
}
