package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/shell"

	"github.com/smykla-skalski/liftoff/internal/exec"
	"github.com/smykla-skalski/liftoff/internal/state"
)

const argsFileMode = 0o644

// LaunchResult describes a started payload.
type LaunchResult struct {
	PID        int
	Argv       []string
	Executable string
	PayloadDir string

	// ExitLauncher reports whether the launcher should exit now.
	ExitLauncher bool

	// Warnings are problems that did not prevent the launch.
	Warnings []error
}

// Launch starts the cached payload with the current language. It writes
// the args file into the payload dir and runs the prerequisite installer
// first when needed. The payload is detached from the launcher.
func (c *Coordinator) Launch(ctx context.Context) (*LaunchResult, error) {
	if !c.Status().IsReady() {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNotReady, "status is %s", c.Status()),
			"run 'liftoff install' first",
		)
	}

	exe, err := c.findInstalledExecutable()
	if err != nil {
		return nil, err
	}

	if exe == "" {
		c.setStatus(StatusDownloadingApp)

		return nil, errors.WithHint(
			errors.Wrapf(ErrExecutableNotFound, "no match for %q in %s", c.cfg.GetLaunch().GetExecutable(), c.inspector.Dir()),
			"run 'liftoff install' to download the application again",
		)
	}

	result := &LaunchResult{
		Executable:   exe,
		PayloadDir:   c.payloadDirOf(exe),
		ExitLauncher: c.cfg.GetLaunch().IsExitAfterLaunch(),
	}

	lang := c.Language()

	if name := c.cfg.GetLaunch().GetArgsFile(); name != "" {
		path := filepath.Join(result.PayloadDir, name)
		content := lang + "&" + c.launcherDir

		if err := os.WriteFile(path, []byte(content), argsFileMode); err != nil {
			result.Warnings = append(result.Warnings, errors.Wrapf(err, "writing %s", path))
		}
	}

	if err := c.runPrerequisite(ctx); err != nil {
		c.logger.Error("prerequisite installer failed", "error", err)
		result.Warnings = append(result.Warnings, err)
	}

	argv, err := c.BuildArgv(exe, result.PayloadDir, lang)
	if err != nil {
		return nil, err
	}

	pid, err := c.deps.Spawner.Spawn(exec.Process{
		Argv: argv,
		Dir:  filepath.Dir(exe),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "starting %s", exe)
	}

	result.PID = pid
	result.Argv = argv

	c.logger.Info("payload started", "pid", pid, "argv", strings.Join(argv, " "), "language", lang)

	return result, nil
}

// findInstalledExecutable prefers the payload named by the install record
// and falls back to any payload in the cache dir.
func (c *Coordinator) findInstalledExecutable() (string, error) {
	rec, err := c.deps.Records.Load()
	if err != nil {
		c.logger.Error("loading install record", "error", err)
	}

	if rec != nil && rec.Phase == state.PhaseInstalled && rec.Payload != "" {
		exe, err := c.inspector.FindExecutableIn(rec.Payload)
		if err != nil {
			return "", err
		}

		if exe != "" {
			return exe, nil
		}
	}

	return c.inspector.FindExecutable()
}

// BuildArgv expands the launch command into an argument vector.
// $EXECUTABLE, $PAYLOAD_DIR, $LANGUAGE, $LAUNCHER_DIR and $CACHE_DIR are
// set; other variables come from the environment.
func (c *Coordinator) BuildArgv(exe, payloadDir, lang string) ([]string, error) {
	vars := map[string]string{
		"EXECUTABLE":   exe,
		"PAYLOAD_DIR":  payloadDir,
		"LANGUAGE":     lang,
		"LAUNCHER_DIR": c.launcherDir,
		"CACHE_DIR":    c.inspector.Dir(),
	}

	command := c.cfg.GetLaunch().GetCommand()

	argv, err := shell.Fields(command, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}

		return os.Getenv(name)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "parsing launch command %q", command)
	}

	if len(argv) == 0 {
		return nil, errors.Newf("launch command %q is empty", command)
	}

	return argv, nil
}

// payloadDirOf returns the top-level cache entry containing exe, or the
// directory of exe when it sits directly in the cache dir.
func (c *Coordinator) payloadDirOf(exe string) string {
	if dir := c.inspector.PayloadOf(exe); dir != "" {
		return dir
	}

	return filepath.Dir(exe)
}

// runPrerequisite runs the cached prerequisite installer and waits for it.
func (c *Coordinator) runPrerequisite(ctx context.Context) error {
	if !c.prerequisiteMissing() {
		return nil
	}

	path := c.prerequisitePath()
	if _, err := os.Stat(path); err != nil {
		c.logger.Info("prerequisite installer not cached", "path", path)

		return nil
	}

	c.logger.Info("running prerequisite installer", "path", path)

	res, err := c.deps.Runner.Run(ctx, path, c.cfg.GetPrerequisite().Args...)
	if err != nil {
		return errors.Wrap(err, "running prerequisite installer")
	}

	c.logger.Debug("prerequisite installer finished", "exit", res.ExitCode)

	return nil
}
