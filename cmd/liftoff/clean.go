package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/liftoff/internal/tui"
)

var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the cached build and the install record",
	Long: `Remove everything in the cache directory together with the install
record and the installed version, so the next run downloads the build
again. The interface language is kept.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Do not ask for confirmation")
}

func runClean(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !cleanYes {
		ok, err := tui.NewWithFallback(noTUIFlag).Confirm(
			"Remove the cached build?",
			fmt.Sprintf("Everything in %s is deleted.", a.coord.CacheDir()),
			false,
		)
		if err != nil {
			return errors.WithHint(errors.Wrap(err, "confirmation failed"), "pass --yes to skip the question")
		}

		if !ok {
			fmt.Fprintln(a.out, "Aborted")

			return nil
		}
	}

	if err := a.coord.Clean(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Removed the cached build from %s\n", a.coord.CacheDir())

	return nil
}
