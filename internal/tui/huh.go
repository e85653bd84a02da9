package tui

import (
	"charm.land/huh/v2"
	"github.com/cockroachdb/errors"
)

// HuhUI implements UI using huh forms.
type HuhUI struct{}

// NewHuhUI creates a new HuhUI instance.
func NewHuhUI() *HuhUI {
	return &HuhUI{}
}

// IsInteractive returns true as HuhUI is for interactive terminals.
func (*HuhUI) IsInteractive() bool {
	return true
}

// SelectLanguage shows a select of the available languages.
func (*HuhUI) SelectLanguage(current string, options []LanguageOption) (string, error) {
	if len(options) == 0 {
		return "", errors.New("no languages available")
	}

	selected := options[indexOf(options, current)].Tag

	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		huhOptions = append(huhOptions, huh.NewOption(o.Label, o.Tag))
	}

	err := huh.NewSelect[string]().
		Title("Interface language").
		Description("Passed to the application on launch.").
		Options(huhOptions...).
		Value(&selected).
		Run()
	if err != nil {
		return "", errors.Wrap(err, "prompt failed")
	}

	return selected, nil
}

// Confirm shows a yes/no confirmation.
func (*HuhUI) Confirm(title, description string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, errors.Wrap(err, "prompt failed")
	}

	return confirmed, nil
}
