package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/liftoff/internal/color"
	internalconfig "github.com/smykla-skalski/liftoff/internal/config"
	"github.com/smykla-skalski/liftoff/internal/coordinator"
	"github.com/smykla-skalski/liftoff/internal/download"
	"github.com/smykla-skalski/liftoff/internal/exec"
	"github.com/smykla-skalski/liftoff/internal/github"
	"github.com/smykla-skalski/liftoff/internal/remote"
	"github.com/smykla-skalski/liftoff/internal/report"
	"github.com/smykla-skalski/liftoff/internal/settings"
	"github.com/smykla-skalski/liftoff/internal/state"
	"github.com/smykla-skalski/liftoff/internal/xdg"
	"github.com/smykla-skalski/liftoff/pkg/config"
	"github.com/smykla-skalski/liftoff/pkg/logger"
)

const ghTokenTimeout = 5 * time.Second

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	closer   io.Closer
	coord    *coordinator.Coordinator
	theme    color.Theme
	out      io.Writer
	errOut   io.Writer
	progress *report.ProgressPrinter
	started  time.Time
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	return newAppWithConfig(cmd, cfg)
}

func newAppWithConfig(cmd *cobra.Command, cfg *config.Config) (*app, error) {
	fileLog, err := logger.NewFileLogger(
		xdg.LogFile(),
		logger.LevelFromFlags(debugMode, traceMode),
		logger.Rotation{
			MaxSizeMB:  cfg.GetLog().GetMaxSizeMB(),
			MaxBackups: cfg.GetLog().GetMaxBackups(),
			MaxAgeDays: cfg.GetLog().GetMaxAgeDays(),
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	log := fileLog.With("command", cmd.Name())
	log.Info("liftoff invoked", "version", version, "cache_dir", cfg.GetCache().GetDir())

	coord, err := newCoordinator(cfg, log)
	if err != nil {
		_ = fileLog.Close()

		return nil, err
	}

	out := cmd.OutOrStdout()

	return &app{
		cfg:      cfg,
		log:      log,
		closer:   fileLog,
		coord:    coord,
		theme:    color.NewTheme(color.Enabled(noColorFlag, os.Stdout)),
		out:      out,
		errOut:   cmd.ErrOrStderr(),
		progress: report.NewProgressPrinter(out, color.IsTerminal(os.Stdout)),
		started:  time.Now(),
	}, nil
}

func newDownloader() *download.Downloader {
	return download.NewDownloader(download.WithUserAgent("liftoff/" + version))
}

//nolint:ireturn // the fetcher depends on the configured format
func newFetcher(cfg *config.Config, d *download.Downloader) (remote.Fetcher, error) {
	return remote.NewFetcher(cfg.GetRemote(), d, func() (github.Client, error) {
		return github.NewClient(github.WithCommandRunner(exec.NewCommandRunner(ghTokenTimeout)))
	})
}

func newCoordinator(cfg *config.Config, log logger.Logger) (*coordinator.Coordinator, error) {
	d := newDownloader()

	fetcher, err := newFetcher(cfg, d)
	if err != nil {
		return nil, err
	}

	return coordinator.New(cfg, coordinator.Deps{
		Fetcher:    fetcher,
		Downloader: d,
		Records:    state.NewStore(xdg.InstallStateFile(), state.WithLogger(log)),
		Settings:   settings.NewStore(xdg.SettingsFile()),
		Runner:     exec.NewCommandRunner(0),
		Spawner:    exec.NewSpawner(),
	}, coordinator.WithLogger(log))
}

// loadConfig loads configuration from all sources with precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader := newLoader()

	cfg, err := loader.Load(buildFlagsMap(cmd))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	return cfg, nil
}

func newLoader() *internalconfig.KoanfLoader {
	var opts []internalconfig.LoaderOption

	if globalConfig != "" {
		opts = append(opts, internalconfig.WithGlobalConfigPath(globalConfig))
	}

	if configPath != "" {
		opts = append(opts, internalconfig.WithConfigFile(configPath))
	}

	return internalconfig.NewKoanfLoader(opts...)
}

// buildFlagsMap converts explicitly set CLI flags to a map for the config provider.
func buildFlagsMap(cmd *cobra.Command) map[string]any {
	flags := make(map[string]any)

	for _, name := range []string{"cache-dir", "version-url", "archive-url", "format", "timeout"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = f.Value.String()
		}
	}

	if f := cmd.Flags().Lookup("allow-offline"); f != nil && f.Changed {
		v, _ := cmd.Flags().GetBool("allow-offline")
		flags["allow-offline"] = v
	}

	return flags
}

func (a *app) Close() {
	a.log.Debug("command finished", "elapsed", time.Since(a.started))

	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) printStatus(r *coordinator.Report) {
	fmt.Fprintln(a.out, report.StatusLine(r.Status, a.theme))

	for _, p := range r.Problems {
		fmt.Fprintln(a.errOut, a.theme.Warning.Render("! "+p.Error()))
	}
}

func (a *app) awaitInstall(ch <-chan *coordinator.InstallResult) *coordinator.InstallResult {
	started := time.Now()

	fmt.Fprintln(a.out, "Downloading", a.cfg.GetRemote().GetArchiveURL())

	res := <-ch
	a.progress.Done()

	for _, w := range res.Warnings {
		fmt.Fprintln(a.errOut, a.theme.Warning.Render("! "+w.Error()))
	}

	if res.Err != nil {
		fmt.Fprintln(a.out, report.StatusLine(res.Status, a.theme))

		return res
	}

	installed := res.Version
	if installed == "" {
		installed = "unknown version"
	}

	fmt.Fprintf(a.out, "Installed %s in %s\n", installed, report.FormatElapsed(time.Since(started)))
	fmt.Fprintln(a.out, report.StatusLine(res.Status, a.theme))

	return res
}

func (a *app) launch(ctx context.Context) error {
	res, err := a.coord.Launch(ctx)
	if err != nil {
		if errors.Is(err, coordinator.ErrNotReady) || errors.Is(err, coordinator.ErrExecutableNotFound) {
			return errors.Mark(err, errNotReady)
		}

		return err
	}

	a.printLaunch(res)

	return nil
}

func (a *app) printLaunch(res *coordinator.LaunchResult) {
	for _, w := range res.Warnings {
		fmt.Fprintln(a.errOut, a.theme.Warning.Render("! "+w.Error()))
	}

	fmt.Fprintf(a.out, "Started %s (pid %d, language %s)\n", res.Executable, res.PID, a.coord.Language())
}
