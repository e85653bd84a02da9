package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and extract the application build",
	Long: `Download the build archive into the cache directory, extract it over the
previous build and record the installed version.

The install runs even when the cached build is up to date. When a runtime
prerequisite is configured and not detected, its installer is downloaded
as well.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	a.printStatus(a.coord.RefreshStatus(ctx))

	ch, err := a.coord.Install(ctx, a.progress.Update)
	if err != nil {
		return err
	}

	if res := a.awaitInstall(ch); res.Err != nil {
		return errors.Mark(res.Err, errNotReady)
	}

	return nil
}
