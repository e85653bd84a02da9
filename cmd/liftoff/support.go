package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

var supportPrint bool

var supportCmd = &cobra.Command{
	Use:   "support",
	Short: "Open the support site in the browser",
	Args:  cobra.NoArgs,
	RunE:  runSupport,
}

func init() {
	rootCmd.AddCommand(supportCmd)

	supportCmd.Flags().BoolVar(&supportPrint, "print", false, "Print the URL instead of opening it")
}

func runSupport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	url := cfg.GetSupportURL()

	if supportPrint {
		fmt.Fprintln(cmd.OutOrStdout(), url)

		return nil
	}

	if err := open.Run(url); err != nil {
		return errors.WithHintf(errors.Wrap(err, "opening support site"), "open %s manually", url)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", url)

	return nil
}
