// Package main provides the CLI entry point for liftoff.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/liftoff/internal/coordinator"
	"github.com/smykla-skalski/liftoff/internal/crashdump"
	"github.com/smykla-skalski/liftoff/internal/xdg"
)

const (
	// ExitCodeOK indicates success.
	ExitCodeOK = 0

	// ExitCodeError indicates a failed command.
	ExitCodeError = 1

	// ExitCodeNotReady indicates the application could not be installed or launched.
	ExitCodeNotReady = 2

	// ExitCodeCrash indicates an unexpected panic/crash occurred.
	ExitCodeCrash = 3

	// maxCrashDumps is the number of crash dumps kept in the state dir.
	maxCrashDumps = 10
)

var (
	debugMode    bool
	traceMode    bool
	configPath   string
	globalConfig string
	noColorFlag  bool
	noTUIFlag    bool
	noLaunchFlag bool
)

// errNotReady makes the command exit with ExitCodeNotReady.
var errNotReady = errors.New("not ready")

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			handlePanic(r)

			exitCode = ExitCodeCrash
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)

		if errors.Is(err, errNotReady) {
			return ExitCodeNotReady
		}

		return ExitCodeError
	}

	return ExitCodeOK
}

// handlePanic handles a recovered panic value by creating a crash dump.
func handlePanic(recovered any) {
	fmt.Fprintf(os.Stderr, "panic: %v\n", recovered)

	storage := crashdump.NewStorage(xdg.CrashDumpDir())

	path, err := storage.Write(crashdump.Collect(recovered, version, os.Args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write crash dump: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stderr, "crash dump saved to: %s\n", path)

	_, _ = storage.Prune(maxCrashDumps)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

var rootCmd = &cobra.Command{
	Use:   "liftoff",
	Short: "Keep the TrueSkills application up to date and launch it",
	Long: `liftoff checks the published version of the application, downloads and
extracts the build into a local cache when it is missing or outdated, and
starts it with the selected interface language.

Without a subcommand it refreshes the status, installs when needed and
then launches the application.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE:              runRoot,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	pf.BoolVar(&traceMode, "trace", false, "Enable trace logging")
	pf.StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to an additional configuration file",
	)
	pf.StringVar(
		&globalConfig,
		"global-config",
		"",
		"Path to the global configuration file (default: $XDG_CONFIG_HOME/liftoff/config.toml)",
	)
	pf.String("cache-dir", "", "Cache directory holding the application build")
	pf.String("version-url", "", "URL of the published version marker")
	pf.String("archive-url", "", "URL of the build archive")
	pf.String("format", "", "Version marker format (auto, text, json, github)")
	pf.String("timeout", "", "Version check timeout (e.g. 2s)")
	pf.Bool("allow-offline", false, "Launch an installed build when the version check fails")
	pf.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	pf.BoolVar(&noTUIFlag, "no-tui", false, "Use simple prompts instead of the interactive TUI")

	rootCmd.Flags().BoolVar(&noLaunchFlag, "no-launch", false, "Install when needed but do not launch")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	r := a.coord.RefreshStatus(ctx)
	a.printStatus(r)

	if r.Status.IsReady() {
		if noLaunchFlag {
			return nil
		}

		return a.launch(ctx)
	}

	out, err := a.coord.LaunchOrInstall(ctx, a.progress.Update)
	if err != nil {
		return err
	}

	if out.Action == coordinator.ActionLaunched {
		a.printLaunch(out.Launch)

		return nil
	}

	res := a.awaitInstall(out.Install)
	if res.Err != nil {
		return errors.Mark(res.Err, errNotReady)
	}

	if noLaunchFlag {
		return nil
	}

	return a.launch(ctx)
}
