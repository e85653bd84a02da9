package main

import (
	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start the cached application",
	Long: `Start the cached application with the selected interface language.

Fails with exit code 2 when the application is not Ready; run
'liftoff install' or plain 'liftoff' to download it first.`,
	Args: cobra.NoArgs,
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	a.printStatus(a.coord.RefreshStatus(ctx))

	return a.launch(ctx)
}
