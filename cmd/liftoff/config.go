package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/liftoff/internal/config"
	"github.com/smykla-skalski/liftoff/internal/schema"
	"github.com/smykla-skalski/liftoff/internal/xdg"
)

var (
	schemaOutput  string
	schemaCompact bool
	configForce   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the liftoff configuration",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON Schema for configuration",
	Long: `Generate a JSON Schema (Draft 2020-12) for the liftoff configuration format.

Examples:
  liftoff config schema                           # Print to stdout
  liftoff config schema --output schema.json      # Write to file
  liftoff config schema --compact                 # Compact output`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the files liftoff reads and writes",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the global config file",
	Long: `Write the default configuration to the global config file
($XDG_CONFIG_HOME/liftoff/config.toml, or --global-config).

Use --force to overwrite an existing file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSchemaCmd, configPathCmd, configInitCmd)

	configSchemaCmd.Flags().StringVarP(
		&schemaOutput,
		"output", "o",
		"",
		"Write schema to file instead of stdout",
	)
	configSchemaCmd.Flags().BoolVar(
		&schemaCompact,
		"compact",
		false,
		"Output compact JSON without indentation",
	)

	configInitCmd.Flags().BoolVarP(
		&configForce,
		"force",
		"f",
		false,
		"Overwrite an existing configuration file",
	)
}

func runConfigSchema(cmd *cobra.Command, _ []string) error {
	data, err := schema.GenerateJSON(!schemaCompact)
	if err != nil {
		return errors.Wrap(err, "generating schema")
	}

	if schemaOutput != "" {
		const filePerms = 0o644

		if writeErr := os.WriteFile(schemaOutput, data, filePerms); writeErr != nil {
			return errors.Wrap(writeErr, "writing schema file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", schemaOutput)

		return nil
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	loader := newLoader()
	out := cmd.OutOrStdout()

	mark := func(path string) string {
		if _, err := os.Stat(path); err != nil {
			return path + " (missing)"
		}

		return path
	}

	fmt.Fprintf(out, "global config:  %s\n", mark(loader.GlobalConfigPath()))

	if loader.ConfigFile() != "" {
		fmt.Fprintf(out, "config:         %s\n", mark(loader.ConfigFile()))
	}

	fmt.Fprintf(out, "settings:       %s\n", mark(xdg.SettingsFile()))
	fmt.Fprintf(out, "install record: %s\n", mark(xdg.InstallStateFile()))
	fmt.Fprintf(out, "log:            %s\n", xdg.LogFile())

	cfg, err := loader.LoadWithoutValidation(buildFlagsMap(cmd))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "cache:          %s\n", cfg.GetCache().GetDir())

	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := newLoader().GlobalConfigPath()

	if err := internalconfig.NewWriter(configForce).WriteFile(path, internalconfig.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

	return nil
}
