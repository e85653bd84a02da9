// Package doctor provides health checks and fixes for a liftoff installation.
package doctor

import (
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Severity represents the severity level of a check result
type Severity string

const (
	// SeverityError indicates a blocking error that must be fixed
	SeverityError Severity = "error"
	// SeverityWarning indicates a non-blocking warning that should be fixed
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates informational output
	SeverityInfo Severity = "info"
)

// Status represents the status of a health check
type Status string

const (
	// StatusPass indicates the check passed
	StatusPass Status = "pass"
	// StatusFail indicates the check failed
	StatusFail Status = "fail"
	// StatusSkipped indicates the check was skipped
	StatusSkipped Status = "skipped"
)

// Category groups related health checks
type Category string

const (
	// CategoryConfig checks the configuration files
	CategoryConfig Category = "config"
	// CategoryPaths checks the state and cache directories
	CategoryPaths Category = "paths"
	// CategoryCache checks the cached build and the install record
	CategoryCache Category = "cache"
	// CategoryRemote checks that the published version can be fetched
	CategoryRemote Category = "remote"
	// CategoryPrerequisite checks the runtime prerequisite
	CategoryPrerequisite Category = "prerequisite"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryConfig,
	CategoryPaths,
	CategoryCache,
	CategoryRemote,
	CategoryPrerequisite,
}

// ErrUnknownCategory is returned by ParseCategories for a name that is not a Category.
var ErrUnknownCategory = errors.New("unknown category")

// ParseCategories converts category names to Categories.
func ParseCategories(names []string) ([]Category, error) {
	result := make([]Category, 0, len(names))

	for _, name := range names {
		c := Category(strings.ToLower(strings.TrimSpace(name)))

		if !isKnown(c) {
			valid := make([]string, 0, len(Categories))
			for _, k := range Categories {
				valid = append(valid, string(k))
			}

			return nil, errors.WithHintf(
				errors.Wrapf(ErrUnknownCategory, "%q", name),
				"valid categories: %s", strings.Join(valid, ", "),
			)
		}

		result = append(result, c)
	}

	return result, nil
}

func isKnown(c Category) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}

	return false
}

// CheckResult represents the result of a health check
type CheckResult struct {
	// Name is the human-readable name of the check
	Name string

	// Category indicates the category this check belongs to
	Category Category

	// Severity indicates the severity level
	Severity Severity

	// Status indicates whether the check passed, failed, or was skipped
	Status Status

	// Message is the primary message describing the result
	Message string

	// Details contains additional context about the result
	Details []string

	// FixID links to a Fixer that can fix this issue, if available
	FixID string
}

// HealthChecker performs a health check and returns a result
type HealthChecker interface {
	// Name returns the human-readable name of the check
	Name() string

	// Category returns the category this check belongs to
	Category() Category

	// Check performs the health check and returns a result
	Check(ctx context.Context) CheckResult
}

// Fixer repairs an issue reported by a health check
type Fixer interface {
	// ID returns the identifier referenced by CheckResult.FixID
	ID() string

	// Description returns a human-readable description of what this fixer does
	Description() string

	// Fix attempts to fix the issue
	Fix(ctx context.Context) error
}

// Reporter formats and outputs check results
type Reporter interface {
	Report(w io.Writer, results []CheckResult, verbose bool)
}

// NewCheckResult creates a new CheckResult with the given parameters
func NewCheckResult(name string, severity Severity, status Status, message string) CheckResult {
	return CheckResult{
		Name:     name,
		Severity: severity,
		Status:   status,
		Message:  message,
		Details:  []string{},
	}
}

// WithDetails adds details to a CheckResult
func (r CheckResult) WithDetails(details ...string) CheckResult {
	r.Details = append(r.Details, details...)
	return r
}

// WithFixID sets the fix ID for a CheckResult
func (r CheckResult) WithFixID(fixID string) CheckResult {
	r.FixID = fixID
	return r
}

// Pass creates a passing check result
func Pass(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusPass, message)
}

// FailError creates a failing check result with error severity
func FailError(name, message string) CheckResult {
	return NewCheckResult(name, SeverityError, StatusFail, message)
}

// FailWarning creates a failing check result with warning severity
func FailWarning(name, message string) CheckResult {
	return NewCheckResult(name, SeverityWarning, StatusFail, message)
}

// Skip creates a skipped check result
func Skip(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusSkipped, message)
}

// IsError returns true if the result is an error
func (r CheckResult) IsError() bool {
	return r.Status == StatusFail && r.Severity == SeverityError
}

// IsWarning returns true if the result is a warning
func (r CheckResult) IsWarning() bool {
	return r.Status == StatusFail && r.Severity == SeverityWarning
}

// IsPassed returns true if the check passed
func (r CheckResult) IsPassed() bool {
	return r.Status == StatusPass
}

// IsSkipped returns true if the check was skipped
func (r CheckResult) IsSkipped() bool {
	return r.Status == StatusSkipped
}

// HasFix returns true if the result has a fix available
func (r CheckResult) HasFix() bool {
	return r.FixID != ""
}
