package pathschecker

import (
	"context"
	"fmt"
	"time"

	"github.com/smykla-skalski/liftoff/internal/crashdump"
	"github.com/smykla-skalski/liftoff/internal/doctor"
)

const crashCheckName = "Crash reports"

// CrashChecker reports crash dumps written within a recent window.
type CrashChecker struct {
	storage *crashdump.Storage
	window  time.Duration
	now     func() time.Time
}

// NewCrashChecker creates a checker over storage that looks back window.
func NewCrashChecker(storage *crashdump.Storage, window time.Duration) *CrashChecker {
	return &CrashChecker{storage: storage, window: window, now: time.Now}
}

// Name returns the name of the check.
func (*CrashChecker) Name() string {
	return crashCheckName
}

// Category returns the category of the check.
func (*CrashChecker) Category() doctor.Category {
	return doctor.CategoryPaths
}

// Check lists recent crash dumps.
func (c *CrashChecker) Check(_ context.Context) doctor.CheckResult {
	summaries, err := c.storage.List()
	if err != nil {
		return doctor.FailWarning(crashCheckName, "Crash dumps unreadable").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	cutoff := c.now().Add(-c.window)

	var recent []string

	for _, s := range summaries {
		if s.Timestamp.After(cutoff) {
			recent = append(recent, fmt.Sprintf("%s: %s", s.Path, s.PanicValue))
		}
	}

	if len(recent) == 0 {
		return doctor.Pass(crashCheckName, "No recent crashes")
	}

	return doctor.FailWarning(crashCheckName, fmt.Sprintf("%d recent crash(es)", len(recent))).
		WithDetails(recent...)
}
