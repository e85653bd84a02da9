package main

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/liftoff/internal/report"
	"github.com/smykla-skalski/liftoff/internal/tui"
)

var languageList bool

var languageCmd = &cobra.Command{
	Use:   "language [tag]",
	Short: "Show or change the interface language",
	Long: `Show or change the interface language passed to the application.

Without an argument the current language is printed, or on an interactive
terminal a picker of the available languages is shown. The tag is matched
against the available languages, so "en" selects "en-US".

Changing the language re-runs the version check.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLanguage,
}

func init() {
	rootCmd.AddCommand(languageCmd)

	languageCmd.Flags().BoolVarP(&languageList, "list", "l", false, "List the available languages")
}

func runLanguage(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	current := a.coord.Language()
	options := tui.LanguageOptions(a.coord.AvailableLanguages())

	if languageList {
		for _, o := range options {
			marker := " "
			if o.Tag == current {
				marker = "*"
			}

			fmt.Fprintf(a.out, "%s %s\n", marker, o.Label)
		}

		return nil
	}

	var tag string

	switch {
	case len(args) == 1:
		tag = args[0]
	case !noTUIFlag && tui.IsTerminal():
		tag, err = tui.NewHuhUI().SelectLanguage(current, options)
		if err != nil {
			return errors.Wrap(err, "language selection failed")
		}
	default:
		fmt.Fprintln(a.out, current)

		return nil
	}

	r, err := a.coord.SetLanguage(cmd.Context(), strings.TrimSpace(tag))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Language set to %s\n", r.Language)
	fmt.Fprintln(a.out, report.StatusLine(r.Status, a.theme))

	return nil
}
