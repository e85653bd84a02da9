package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/smykla-skalski/liftoff/internal/prompt"
)

// FallbackUI implements UI using simple line prompts.
// This is used when the terminal is not interactive (CI, piped input, etc.).
type FallbackUI struct {
	prompter prompt.Prompter
	out      io.Writer
}

// NewFallbackUI creates a new FallbackUI instance.
func NewFallbackUI() *FallbackUI {
	return NewFallbackUIWithPrompter(prompt.NewStdPrompter(), os.Stdout)
}

// NewFallbackUIWithPrompter creates a FallbackUI with a custom prompter.
func NewFallbackUIWithPrompter(p prompt.Prompter, out io.Writer) *FallbackUI {
	return &FallbackUI{
		prompter: p,
		out:      out,
	}
}

// IsInteractive returns false as FallbackUI is for non-interactive terminals.
func (*FallbackUI) IsInteractive() bool {
	return false
}

// SelectLanguage prints the language tags as a numbered list and reads the
// choice by number or tag.
func (f *FallbackUI) SelectLanguage(current string, options []LanguageOption) (string, error) {
	tags := make([]string, 0, len(options))
	for _, o := range options {
		tags = append(tags, o.Tag)
	}

	_, _ = fmt.Fprintln(f.out, "Interface language")

	i, err := f.prompter.Choose("Choice", tags, indexOf(options, current))
	if err != nil {
		return "", err
	}

	return options[i].Tag, nil
}

// Confirm asks a yes/no question.
func (f *FallbackUI) Confirm(title, description string, defaultValue bool) (bool, error) {
	if description != "" {
		_, _ = fmt.Fprintln(f.out, description)
	}

	return f.prompter.Confirm(title, defaultValue)
}
