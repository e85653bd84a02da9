package coordinator

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/internal/archive"
	"github.com/smykla-skalski/liftoff/internal/settings"
	"github.com/smykla-skalski/liftoff/internal/state"
)

const versionFileMode = 0o644

// Stage identifies what an install is downloading.
type Stage string

const (
	// StagePrerequisite is the runtime installer download.
	StagePrerequisite Stage = "prerequisite"

	// StageArchive is the build archive download.
	StageArchive Stage = "archive"
)

// Progress is a download progress update. Total is -1 when unknown.
type Progress struct {
	Stage    Stage
	Received int64
	Total    int64
}

// ProgressFunc receives download progress.
type ProgressFunc func(Progress)

// DownloadResult is the outcome of an archive download.
type DownloadResult struct {
	ArchivePath string
	Err         error
}

// InstallResult is the outcome of an install cycle.
type InstallResult struct {
	Status     Status
	Version    string
	PayloadDir string
	Executable string

	// Warnings are problems that did not prevent the install.
	Warnings []error

	Err error
}

// Action is what LaunchOrInstall did.
type Action string

const (
	ActionLaunched   Action = "launched"
	ActionInstalling Action = "installing"
)

// Outcome is the result of LaunchOrInstall. Exactly one of Launch and
// Install is set, matching Action.
type Outcome struct {
	Action  Action
	Launch  *LaunchResult
	Install <-chan *InstallResult
}

// LaunchOrInstall launches the payload when the status is Ready, otherwise
// starts an install in the background.
func (c *Coordinator) LaunchOrInstall(ctx context.Context, progress ProgressFunc) (*Outcome, error) {
	if c.installing.Load() {
		return nil, ErrInstallInProgress
	}

	if c.Status().IsReady() {
		res, err := c.Launch(ctx)
		if err != nil {
			return nil, err
		}

		return &Outcome{Action: ActionLaunched, Launch: res}, nil
	}

	ch, err := c.Install(ctx, progress)
	if err != nil {
		return nil, err
	}

	return &Outcome{Action: ActionInstalling, Install: ch}, nil
}

// Install starts a download and extraction cycle in the background. The
// returned channel yields exactly one result and is then closed. Only one
// cycle runs at a time.
func (c *Coordinator) Install(ctx context.Context, progress ProgressFunc) (<-chan *InstallResult, error) {
	if !c.installing.CompareAndSwap(false, true) {
		return nil, ErrInstallInProgress
	}

	if progress == nil {
		progress = func(Progress) {}
	}

	ch := make(chan *InstallResult, 1)

	go func() {
		res := c.install(ctx, progress)

		c.installing.Store(false)

		ch <- res
		close(ch)
	}()

	return ch, nil
}

func (c *Coordinator) install(ctx context.Context, progress ProgressFunc) *InstallResult {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.GetRemote().GetDownloadTimeout())
	defer cancel()

	archiveName := c.cfg.GetCache().GetArchiveName()
	archivePath := filepath.Join(c.inspector.Dir(), archiveName)

	if err := c.inspector.Ensure(); err != nil {
		return c.failInstall(err)
	}

	rec := state.NewRecord()
	rec.Phase = state.PhaseDownloading
	rec.Archive = archiveName

	if err := c.deps.Records.Save(rec); err != nil {
		return c.failInstall(err)
	}

	var warnings []error

	if err := c.downloadPrerequisite(ctx, progress); err != nil {
		c.logger.Error("prerequisite download failed", "error", err)
		warnings = append(warnings, err)
	}

	url := c.cfg.GetRemote().GetArchiveURL()
	c.logger.Info("downloading archive", "url", url, "dest", archivePath)

	err := c.deps.Downloader.DownloadToFile(ctx, url, archivePath, func(received, total int64) {
		progress(Progress{Stage: StageArchive, Received: received, Total: total})
	})

	res := c.DownloadComplete(ctx, DownloadResult{ArchivePath: archivePath, Err: err})
	res.Warnings = append(warnings, res.Warnings...)

	return res
}

// DownloadComplete finishes an install cycle: a readable archive is
// extracted over the cache directory and removed, payload directories the
// archive did not produce are deleted, the remote version is persisted as
// installed and the status becomes Ready. A failed download or
// an unreadable archive sets Failed and returns the error in the result.
func (c *Coordinator) DownloadComplete(ctx context.Context, res DownloadResult) *InstallResult {
	if res.Err != nil {
		c.removeArchive(res.ArchivePath)

		return c.failInstall(errors.Wrap(res.Err, "downloading archive"))
	}

	if err := archive.Validate(res.ArchivePath); err != nil {
		c.removeArchive(res.ArchivePath)

		return c.failInstall(errors.WithHint(err, "run 'liftoff install' to download the archive again"))
	}

	extracted, err := archive.ExtractAll(res.ArchivePath, c.inspector.Dir())
	if err != nil {
		return c.failInstall(err)
	}

	result := &InstallResult{}

	if err := os.Remove(res.ArchivePath); err != nil {
		result.Warnings = append(result.Warnings, errors.Wrap(err, "removing archive"))
	}

	// Only entries that came out of this archive can hold the new build.
	exe, err := c.inspector.FindExecutableIn(extracted...)
	if err != nil {
		return c.failInstall(err)
	}

	if exe == "" {
		return c.failInstall(errors.WithHint(
			errors.Wrapf(ErrExecutableNotFound, "no match for %q after extraction", c.cfg.GetLaunch().GetExecutable()),
			"check launch.executable in the configuration",
		))
	}

	payloadDir := c.payloadDirOf(exe)

	if err := c.inspector.RemoveDirsExcept(extracted...); err != nil {
		result.Warnings = append(result.Warnings, errors.Wrap(err, "removing previous payload"))
	}

	version, err := c.knownRemoteVersion(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings, errors.Wrap(err, "version of the installed payload is unknown"))
	}

	if name := c.cfg.GetLaunch().GetVersionFile(); name != "" && version != "" {
		path := filepath.Join(payloadDir, name)
		if err := os.WriteFile(path, []byte(version), versionFileMode); err != nil {
			result.Warnings = append(result.Warnings, errors.Wrapf(err, "writing %s", path))
		}
	}

	if version != "" {
		if _, err := c.deps.Settings.Update(func(s *settings.Settings) {
			s.InstalledVersion = version
		}); err != nil {
			return c.failInstall(err)
		}
	}

	rec := &state.Record{
		Phase:   state.PhaseInstalled,
		Version: version,
		Archive: filepath.Base(res.ArchivePath),
		Payload: c.payloadName(payloadDir),
	}

	if err := c.deps.Records.Save(rec); err != nil {
		result.Warnings = append(result.Warnings, err)
	}

	c.setStatus(StatusReady)

	result.Status = StatusReady
	result.Version = version
	result.PayloadDir = payloadDir
	result.Executable = exe

	c.logger.Info("install complete",
		"version", version,
		"payload", payloadDir,
		"warnings", len(result.Warnings),
	)

	return result
}

func (c *Coordinator) failInstall(err error) *InstallResult {
	c.logger.Error("install failed", "error", err)
	c.setStatus(StatusFailed)

	return &InstallResult{Status: StatusFailed, Err: err}
}

func (c *Coordinator) removeArchive(path string) {
	if path == "" {
		return
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Error("removing archive", "path", path, "error", err)
	}
}

// prerequisiteMissing reports whether the configured prerequisite is not
// installed. Without a detect pattern the installer always runs.
func (c *Coordinator) prerequisiteMissing() bool {
	pre := c.cfg.GetPrerequisite()
	if !pre.IsEnabled() {
		return false
	}

	if pre.Detect == "" {
		return true
	}

	matches, err := doublestar.FilepathGlob(pre.Detect, doublestar.WithFilesOnly())
	if err != nil {
		c.logger.Error("matching prerequisite detect pattern", "pattern", pre.Detect, "error", err)

		return true
	}

	return len(matches) == 0
}

func (c *Coordinator) prerequisitePath() string {
	return filepath.Join(c.inspector.Dir(), c.cfg.GetPrerequisite().File)
}

func (c *Coordinator) downloadPrerequisite(ctx context.Context, progress ProgressFunc) error {
	if !c.prerequisiteMissing() {
		return nil
	}

	dest := c.prerequisitePath()
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	url := c.cfg.GetPrerequisite().URL
	c.logger.Info("downloading prerequisite", "url", url, "dest", dest)

	err := c.deps.Downloader.DownloadToFile(ctx, url, dest, func(received, total int64) {
		progress(Progress{Stage: StagePrerequisite, Received: received, Total: total})
	})
	if err != nil {
		return errors.Wrap(err, "downloading prerequisite installer")
	}

	return nil
}
