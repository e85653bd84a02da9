// Package remotechecker checks that the published version can be fetched.
package remotechecker

import (
	"context"
	"fmt"
	"time"

	"github.com/smykla-skalski/liftoff/internal/doctor"
	"github.com/smykla-skalski/liftoff/internal/remote"
)

const checkName = "Version check"

// Checker fetches the published version.
type Checker struct {
	fetcher remote.Fetcher
	source  string
	timeout time.Duration
}

// NewChecker creates a checker that fetches from source within timeout.
func NewChecker(fetcher remote.Fetcher, source string, timeout time.Duration) *Checker {
	return &Checker{fetcher: fetcher, source: source, timeout: timeout}
}

// Name returns the name of the check
func (*Checker) Name() string {
	return checkName
}

// Category returns the category of the check
func (*Checker) Category() doctor.Category {
	return doctor.CategoryRemote
}

// Check fetches the version. A failure is a warning since an installed
// build can still be launched offline.
func (c *Checker) Check(ctx context.Context) doctor.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()

	v, err := c.fetcher.FetchVersion(ctx)
	if err != nil {
		return doctor.FailWarning(checkName, "Published version unavailable").
			WithDetails(
				"Source: "+c.source,
				fmt.Sprintf("Error: %v", err),
			)
	}

	return doctor.Pass(checkName, "Published version "+v).
		WithDetails(
			"Source: "+c.source,
			"Fetched in "+time.Since(started).Round(time.Millisecond).String(),
		)
}
