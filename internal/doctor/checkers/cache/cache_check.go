// Package cachechecker provides health checkers for the cached build.
package cachechecker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/smykla-skalski/liftoff/internal/cache"
	"github.com/smykla-skalski/liftoff/internal/doctor"
	"github.com/smykla-skalski/liftoff/internal/state"
)

// FixResetCache is the fix ID for a cache that must be emptied.
const FixResetCache = "reset_cache"

const (
	buildCheck  = "Cached build"
	recordCheck = "Install record"
)

// BuildChecker inspects the cache directory.
type BuildChecker struct {
	inspector *cache.Inspector
}

// NewBuildChecker creates a checker over the cache inspected by inspector.
func NewBuildChecker(inspector *cache.Inspector) *BuildChecker {
	return &BuildChecker{inspector: inspector}
}

// Name returns the name of the check
func (*BuildChecker) Name() string {
	return buildCheck
}

// Category returns the category of the check
func (*BuildChecker) Category() doctor.Category {
	return doctor.CategoryCache
}

// Check reports archives that cannot be read and payloads without an executable.
func (c *BuildChecker) Check(_ context.Context) doctor.CheckResult {
	snap, err := c.inspector.Inspect()
	if err != nil {
		return doctor.FailError(buildCheck, "Failed to inspect cache").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	if snap.Archive == cache.ArchiveInvalid {
		return doctor.FailError(buildCheck, "Corrupt archive in cache").
			WithDetails(
				"Archive: "+snap.ArchivePath,
				fmt.Sprintf("Error: %v", snap.ArchiveErr),
			).
			WithFixID(FixResetCache)
	}

	if !snap.HasPayload() {
		details := []string{"Cache dir: " + snap.Dir, "Install with: liftoff install"}
		if snap.Archive == cache.ArchiveValid {
			details = append(details, "Pending archive: "+snap.ArchivePath)
		}

		return doctor.FailWarning(buildCheck, "No build installed").WithDetails(details...)
	}

	if snap.Executable == "" {
		return doctor.FailError(buildCheck, "Build has no executable").
			WithDetails("Payload: " + snap.PayloadDir).
			WithFixID(FixResetCache)
	}

	return doctor.Pass(buildCheck, "Executable found").
		WithDetails("Executable: " + snap.Executable)
}

// RecordChecker compares the install record with the cache content.
type RecordChecker struct {
	inspector *cache.Inspector
	records   *state.Store
}

// NewRecordChecker creates a checker for the install record in records.
func NewRecordChecker(inspector *cache.Inspector, records *state.Store) *RecordChecker {
	return &RecordChecker{inspector: inspector, records: records}
}

// Name returns the name of the check
func (*RecordChecker) Name() string {
	return recordCheck
}

// Category returns the category of the check
func (*RecordChecker) Category() doctor.Category {
	return doctor.CategoryCache
}

// Check reports interrupted installs and records that point at a missing payload.
func (c *RecordChecker) Check(_ context.Context) doctor.CheckResult {
	rec, err := c.records.Load()
	if err != nil {
		return doctor.FailError(recordCheck, "Install record unreadable").
			WithDetails(
				"File: "+c.records.Path(),
				fmt.Sprintf("Error: %v", err),
			).
			WithFixID(FixResetCache)
	}

	snap, err := c.inspector.Inspect()
	if err != nil {
		return doctor.Skip(recordCheck, "Cache could not be inspected")
	}

	switch rec.Phase {
	case state.PhaseNone:
		return doctor.Pass(recordCheck, "Nothing installed yet")

	case state.PhaseDownloading:
		return doctor.FailWarning(recordCheck, "Previous install did not finish").
			WithDetails("Archive: " + rec.Archive).
			WithFixID(FixResetCache)

	case state.PhaseInstalled:
		if !snap.HasPayload() || filepath.Base(snap.PayloadDir) != rec.Payload {
			return doctor.FailWarning(recordCheck, "Recorded build is missing from the cache").
				WithDetails("Recorded payload: " + rec.Payload).
				WithFixID(FixResetCache)
		}

		version := rec.Version
		if version == "" {
			version = "unknown version"
		}

		return doctor.Pass(recordCheck, "Installed "+version)
	}

	return doctor.Pass(recordCheck, string(rec.Phase))
}
