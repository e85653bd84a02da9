// Package color decides whether output is colored and holds the styles used
// by the status report and the doctor.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Enabled reports whether output written to out should carry ANSI colors.
//
// CLICOLOR_FORCE (any value but "0") turns color on for non-terminals. The
// --no-color flag, NO_COLOR (https://no-color.org), CLICOLOR=0 and TERM=dumb
// turn it off, and they win over CLICOLOR_FORCE.
func Enabled(noColorFlag bool, out *os.File) bool {
	if noColorFlag || disabledByEnv() {
		return false
	}

	if force, ok := os.LookupEnv("CLICOLOR_FORCE"); ok && force != "0" {
		return true
	}

	return out != nil && IsTerminal(out)
}

func disabledByEnv() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}

	return os.Getenv("CLICOLOR") == "0" || os.Getenv("TERM") == "dumb"
}

// IsTerminal reports whether f is a character device.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// Theme holds the styles for each kind of output line.
type Theme struct {
	Ready       lipgloss.Style
	Failed      lipgloss.Style
	Downloading lipgloss.Style
	Warning     lipgloss.Style
	Info        lipgloss.Style
	Header      lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
}

// ANSI 16-color palette indexes.
const (
	gray         = "8"
	brightRed    = "9"
	brightGreen  = "10"
	brightYellow = "11"
	brightBlue   = "12"
	brightCyan   = "14"
)

// NewTheme returns the colored theme, or a theme of empty styles that render
// text unchanged when enabled is false.
func NewTheme(enabled bool) Theme {
	if !enabled {
		return Theme{}
	}

	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	return Theme{
		Ready:       fg(brightGreen).Bold(true),
		Failed:      fg(brightRed).Bold(true),
		Downloading: fg(brightBlue),
		Warning:     fg(brightYellow),
		Info:        fg(brightCyan),
		Header:      fg(brightCyan).Bold(true),
		Label:       lipgloss.NewStyle().Bold(true),
		Muted:       fg(gray),
	}
}
