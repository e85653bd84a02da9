package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/liftoff/internal/cache"
	"github.com/smykla-skalski/liftoff/internal/crashdump"
	internalconfig "github.com/smykla-skalski/liftoff/internal/config"
	"github.com/smykla-skalski/liftoff/internal/doctor"
	cachechecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/cache"
	configchecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/config"
	pathschecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/paths"
	prereqchecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/prerequisite"
	remotechecker "github.com/smykla-skalski/liftoff/internal/doctor/checkers/remote"
	"github.com/smykla-skalski/liftoff/internal/doctor/fixers"
	"github.com/smykla-skalski/liftoff/internal/doctor/reporters"
	"github.com/smykla-skalski/liftoff/internal/prompt"
	"github.com/smykla-skalski/liftoff/internal/state"
	"github.com/smykla-skalski/liftoff/internal/tui"
	"github.com/smykla-skalski/liftoff/internal/xdg"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

// crashWindow is how far back the doctor looks for crash dumps.
const crashWindow = 7 * 24 * time.Hour

var (
	doctorFix        bool
	doctorVerbose    bool
	doctorCategories []string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration, cache and version source",
	Long: `Run health checks over the liftoff installation.

Checks:
  config        configuration files load and validate
  paths         state and cache directories exist and are writable
  cache         the cached build and install record are consistent
  remote        the published version can be fetched
  prerequisite  the runtime prerequisite is installed

Examples:
  liftoff doctor                     # Run all checks
  liftoff doctor --fix               # Apply available fixes
  liftoff doctor --category cache    # Only check the cache`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Apply available fixes without asking")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false, "Show check details")
	doctorCmd.Flags().StringSliceVar(
		&doctorCategories,
		"category",
		nil,
		"Only run checks in these categories",
	)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	categories, err := doctor.ParseCategories(doctorCategories)
	if err != nil {
		return err
	}

	loader := newLoader()
	flags := buildFlagsMap(cmd)

	// A broken config is reported by the config check; the rest runs on defaults.
	cfg, loadErr := loader.LoadWithoutValidation(flags)
	if loadErr != nil {
		cfg = internalconfig.DefaultConfig()
	}

	a, err := newAppWithConfig(cmd, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if loadErr != nil {
		a.log.Error("config failed to load, checking with defaults", "error", loadErr)
	}

	registry, err := newDoctorRegistry(cfg, loader, flags, a)
	if err != nil {
		return err
	}

	interactive := !doctorFix && !noTUIFlag && tui.IsTerminal()

	runner := doctor.NewRunner(
		registry,
		reporters.NewSimpleReporter(a.theme),
		prompt.NewPrompter(os.Stdin, a.out),
		a.log,
		a.out,
	)

	return runner.Run(cmd.Context(), doctor.RunOptions{
		Verbose:     doctorVerbose,
		AutoFix:     doctorFix,
		Interactive: interactive,
		Categories:  categories,
	})
}

func newDoctorRegistry(
	cfg *config.Config,
	loader *internalconfig.KoanfLoader,
	flags map[string]any,
	a *app,
) (*doctor.Registry, error) {
	fetcher, err := newFetcher(cfg, newDownloader())
	if err != nil {
		return nil, err
	}

	source := cfg.GetRemote().GetVersionURL()
	if cfg.GetRemote().GetFormat() == config.VersionFormatGitHub {
		source = "github.com/" + cfg.GetRemote().GetGitHubRepo()
	}

	inspector := cache.NewInspector(
		cfg.GetCache().GetDir(),
		cfg.GetCache().GetArchivePattern(),
		cfg.GetLaunch().GetExecutable(),
	)
	records := state.NewStore(xdg.InstallStateFile(), state.WithLogger(a.log))

	dirs := []pathschecker.Dir{
		{Name: "state", Path: xdg.StateDir()},
		{Name: "cache", Path: cfg.GetCache().GetDir()},
	}

	registry := doctor.NewRegistry()

	registry.RegisterChecker(configchecker.NewChecker(loader, flags))
	registry.RegisterChecker(pathschecker.NewDirChecker(dirs...))
	registry.RegisterChecker(pathschecker.NewCrashChecker(
		crashdump.NewStorage(xdg.CrashDumpDir()),
		crashWindow,
	))
	registry.RegisterChecker(cachechecker.NewBuildChecker(inspector))
	registry.RegisterChecker(cachechecker.NewRecordChecker(inspector, records))
	registry.RegisterChecker(remotechecker.NewChecker(fetcher, source, cfg.GetRemote().GetTimeout()))
	registry.RegisterChecker(prereqchecker.NewChecker(cfg.GetPrerequisite()))

	registry.RegisterFixer(fixers.NewDirsFixer(dirs...))
	registry.RegisterFixer(fixers.NewPermissionsFixer(loader.GlobalConfigPath(), loader.ConfigFile()))
	registry.RegisterFixer(fixers.NewConfigFixer(loader.GlobalConfigPath()))
	registry.RegisterFixer(fixers.NewCacheFixer(a.coord))

	return registry, nil
}
