// Package tui provides terminal user interface components.
package tui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// UI abstracts the interactive questions liftoff asks, so that both the
// huh forms and the line-based fallback can serve them.
type UI interface {
	// SelectLanguage asks the user to pick one of options and returns the
	// chosen tag.
	SelectLanguage(current string, options []LanguageOption) (string, error)

	// Confirm asks a yes/no question.
	Confirm(title, description string, defaultValue bool) (bool, error)

	// IsInteractive returns true if running in an interactive terminal.
	IsInteractive() bool
}

// LanguageOption is a selectable UI language.
type LanguageOption struct {
	// Tag is the BCP 47 tag passed to the payload.
	Tag string

	// Label is the language name in that language, e.g. "русский (Россия)".
	Label string
}

// LanguageOptions builds options for tags, labelling each one with its
// self-name. Unknown tags are labelled with the tag itself.
func LanguageOptions(tags []string) []LanguageOption {
	opts := make([]LanguageOption, 0, len(tags))

	for _, tag := range tags {
		label := tag

		if t, err := language.Parse(tag); err == nil {
			if name := display.Self.Name(t); name != "" {
				label = name + " (" + tag + ")"
			}
		}

		opts = append(opts, LanguageOption{Tag: tag, Label: label})
	}

	return opts
}

func indexOf(options []LanguageOption, tag string) int {
	for i, o := range options {
		if o.Tag == tag {
			return i
		}
	}

	return 0
}
