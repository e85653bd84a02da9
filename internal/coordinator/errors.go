package coordinator

import "github.com/cockroachdb/errors"

var (
	// ErrInstallInProgress is returned when an install cycle is already running.
	ErrInstallInProgress = errors.New("install already in progress")

	// ErrNotReady is returned when launching while the status is not Ready.
	ErrNotReady = errors.New("application is not ready to launch")

	// ErrExecutableNotFound is returned when no file matches the executable pattern.
	ErrExecutableNotFound = errors.New("payload executable not found")

	// ErrFetchTimeout is returned when the remote version fetch exceeds its bound.
	ErrFetchTimeout = errors.New("remote version fetch timed out")

	// ErrUnsupportedLanguage is returned for a language outside the available list.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
