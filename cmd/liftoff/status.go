package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/liftoff/internal/report"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the application is ready, outdated or missing",
	Long: `Check the published version and the local cache, and report the status.

Statuses:
  Ready              the cached build matches the published version
  DownloadingApp     the build is missing and must be downloaded
  DownloadingUpdate  a newer build is published
  Failed             the cache was corrupt and has been cleared

A corrupt archive found in the cache is removed during the check.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the report as JSON")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r := a.coord.RefreshStatus(cmd.Context())

	if statusJSON {
		return report.WriteJSON(a.out, r)
	}

	fmt.Fprintln(a.out, report.RenderTable(r, a.theme))

	return nil
}
