package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/smykla-skalski/liftoff/internal/cache"
	"github.com/smykla-skalski/liftoff/internal/download"
	"github.com/smykla-skalski/liftoff/internal/exec"
	"github.com/smykla-skalski/liftoff/internal/remote"
	"github.com/smykla-skalski/liftoff/internal/settings"
	"github.com/smykla-skalski/liftoff/internal/state"
	"github.com/smykla-skalski/liftoff/pkg/config"
	"github.com/smykla-skalski/liftoff/pkg/logger"
)

const fetchKey = "remote-version"

// Downloader fetches a URL into a file.
type Downloader interface {
	DownloadToFile(ctx context.Context, url, dest string, progress download.ProgressFunc) error
}

// Deps are the collaborators of a Coordinator.
type Deps struct {
	Fetcher    remote.Fetcher
	Downloader Downloader
	Records    *state.Store
	Settings   *settings.Store
	Runner     exec.CommandRunner
	Spawner    exec.Spawner
}

// Coordinator owns the launcher status and drives install and launch.
type Coordinator struct {
	cfg         *config.Config
	deps        Deps
	inspector   *cache.Inspector
	logger      logger.Logger
	launcherDir string
	now         func() time.Time

	fetches    singleflight.Group
	installing atomic.Bool

	mu            sync.RWMutex
	status        Status
	language      string
	remoteVersion string
	last          *Report
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLauncherDir sets the directory reported to the payload as the
// launcher location. Defaults to the working directory.
func WithLauncherDir(dir string) Option {
	return func(c *Coordinator) {
		c.launcherDir = dir
	}
}

// New creates a Coordinator. The language starts from the persisted
// settings, falling back to the configured default.
func New(cfg *config.Config, deps Deps, opts ...Option) (*Coordinator, error) {
	if deps.Fetcher == nil || deps.Downloader == nil || deps.Records == nil || deps.Settings == nil {
		return nil, errors.New("coordinator: fetcher, downloader, records and settings are required")
	}

	if deps.Runner == nil {
		deps.Runner = exec.NewCommandRunner(0)
	}

	if deps.Spawner == nil {
		deps.Spawner = exec.NewSpawner()
	}

	c := &Coordinator{
		cfg:  cfg,
		deps: deps,
		inspector: cache.NewInspector(
			cfg.GetCache().GetDir(),
			cfg.GetCache().GetArchivePattern(),
			cfg.GetLaunch().GetExecutable(),
		),
		logger: logger.NewNoOpLogger(),
		now:    time.Now,
		status: StatusDownloadingApp,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.launcherDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.launcherDir = wd
		}
	}

	st, err := deps.Settings.Load()
	if err != nil {
		return nil, err
	}

	c.language = cfg.GetLanguage().GetDefault()

	if st.Language != "" {
		if tag, err := c.matchLanguage(st.Language); err == nil {
			c.language = tag
		} else {
			c.logger.Info("ignoring persisted language", "language", st.Language, "error", err)
		}
	}

	return c, nil
}

// Status returns the current status.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.status
}

// Language returns the current UI language tag.
func (c *Coordinator) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.language
}

// LastReport returns the report of the most recent refresh, or nil.
func (c *Coordinator) LastReport() *Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.last
}

// CacheDir returns the cache directory.
func (c *Coordinator) CacheDir() string {
	return c.inspector.Dir()
}

// Installing reports whether an install cycle is running.
func (c *Coordinator) Installing() bool {
	return c.installing.Load()
}

func (c *Coordinator) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// RefreshStatus fetches the remote version and inspects the cache
// concurrently, then decides the status. It never fails: problems are
// listed in the report and degrade the status. A corrupt cache is cleared
// and a stray archive next to an installed payload is removed.
func (c *Coordinator) RefreshStatus(ctx context.Context) *Report {
	started := c.now()

	var (
		remoteVersion string
		fetchErr      error
		snap          *cache.Snapshot
		inspectErr    error
	)

	var g errgroup.Group

	g.Go(func() error {
		remoteVersion, fetchErr = c.fetchRemote(ctx)

		return nil
	})

	g.Go(func() error {
		snap, inspectErr = c.inspector.Inspect()

		return nil
	})

	_ = g.Wait()

	report := &Report{
		CacheDir:      c.inspector.Dir(),
		Language:      c.Language(),
		RemoteVersion: remoteVersion,
		CheckedAt:     started,
	}

	if fetchErr != nil {
		c.logger.Info("remote version unavailable", "error", fetchErr)
		report.addProblem(errors.Wrap(fetchErr, "fetching remote version"))
	}

	st, err := c.deps.Settings.Load()
	if err != nil {
		report.addProblem(err)

		st = &settings.Settings{}
	}

	report.InstalledVersion = st.InstalledVersion
	report.Verdict = remote.Compare(st.InstalledVersion, remoteVersion)

	rec, err := c.deps.Records.Load()
	if err != nil {
		report.addProblem(err)
	}

	if inspectErr != nil {
		report.addProblem(inspectErr)
		report.Status = StatusFailed

		return c.finishRefresh(report, remoteVersion)
	}

	layout, stray := Classify(snap, rec)
	report.Layout = layout
	report.PayloadDir = snap.PayloadDir
	report.Executable = snap.Executable
	report.ArchivePath = snap.ArchivePath

	switch {
	case layout == LayoutMissing:
		if err := c.inspector.Ensure(); err != nil {
			report.addProblem(err)
		}
	case layout == LayoutArchiveInvalid:
		report.addProblem(snap.ArchiveErr)
		c.resetCache(report)
	case stray:
		c.logger.Info("removing stray archive", "path", snap.ArchivePath)

		if err := os.Remove(snap.ArchivePath); err != nil {
			report.addProblem(errors.Wrap(err, "removing stray archive"))
		} else {
			report.ArchivePath = ""
		}
	}

	report.Status = Decide(layout, report.Verdict, DecideInput{
		EverInstalled: st.InstalledVersion != "",
		AllowOffline:  c.cfg.GetLaunch().IsAllowOffline(),
	})

	return c.finishRefresh(report, remoteVersion)
}

func (c *Coordinator) finishRefresh(report *Report, remoteVersion string) *Report {
	report.Duration = c.now().Sub(report.CheckedAt)

	c.mu.Lock()
	c.status = report.Status
	c.last = report
	// A failed fetch forgets the earlier version so an install fetches again.
	c.remoteVersion = remoteVersion

	c.mu.Unlock()

	c.logger.Info("status refreshed",
		"status", report.Status,
		"layout", report.Layout,
		"verdict", report.Verdict,
		"remote", report.RemoteVersion,
		"installed", report.InstalledVersion,
		"problems", len(report.Problems),
	)

	return report
}

// resetCache clears the cache directory and the install record.
func (c *Coordinator) resetCache(report *Report) {
	c.logger.Info("clearing corrupt cache", "dir", c.inspector.Dir())

	if err := c.inspector.Clear(); err != nil {
		report.addProblem(err)
	}

	if err := c.deps.Records.Clear(); err != nil {
		report.addProblem(err)
	}

	report.ArchivePath = ""
	report.PayloadDir = ""
	report.Executable = ""
}

// fetchRemote returns the remote version. Concurrent callers share one
// request, and the call returns within remote.timeout even when the
// request ignores its context.
func (c *Coordinator) fetchRemote(ctx context.Context) (string, error) {
	timeout := c.cfg.GetRemote().GetTimeout()

	ch := c.fetches.DoChan(fetchKey, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()

		return c.deps.Fetcher.FetchVersion(fctx)
	})

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}

		version, _ := res.Val.(string)

		return version, nil
	case <-timer.C:
		return "", errors.Wrapf(ErrFetchTimeout, "after %s", timeout)
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "fetching remote version")
	}
}

// knownRemoteVersion returns the last fetched remote version, fetching it
// when none is known.
func (c *Coordinator) knownRemoteVersion(ctx context.Context) (string, error) {
	c.mu.RLock()
	version := c.remoteVersion
	c.mu.RUnlock()

	if version != "" {
		return version, nil
	}

	version, err := c.fetchRemote(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.remoteVersion = version
	c.mu.Unlock()

	return version, nil
}

// Clean removes the cache contents, the install record and the installed
// version marker.
func (c *Coordinator) Clean(ctx context.Context) error {
	if c.installing.Load() {
		return ErrInstallInProgress
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var errs error

	if err := c.inspector.Clear(); err != nil {
		errs = errors.CombineErrors(errs, err)
	}

	if err := c.deps.Records.Clear(); err != nil {
		errs = errors.CombineErrors(errs, err)
	}

	if _, err := c.deps.Settings.Update(func(s *settings.Settings) {
		s.InstalledVersion = ""
	}); err != nil {
		errs = errors.CombineErrors(errs, err)
	}

	c.setStatus(StatusDownloadingApp)
	c.logger.Info("cache cleaned", "dir", c.inspector.Dir())

	return errs
}

func (c *Coordinator) payloadName(dir string) string {
	if dir == "" {
		return ""
	}

	rel, err := filepath.Rel(c.inspector.Dir(), dir)
	if err != nil {
		return filepath.Base(dir)
	}

	return rel
}
