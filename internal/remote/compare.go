package remote

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Verdict is the outcome of comparing installed and remote versions.
type Verdict int

const (
	// VerdictUnknown means the remote version could not be fetched.
	VerdictUnknown Verdict = iota

	// VerdictMatches means the installed version is the remote version.
	VerdictMatches

	// VerdictDiffers means the remote version is different.
	VerdictDiffers
)

func (v Verdict) String() string {
	switch v {
	case VerdictMatches:
		return "matches"
	case VerdictDiffers:
		return "differs"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Compare compares installed with remote. An empty remote is unknown.
// Versions that both parse as semver are compared semantically, so
// "v1.2" matches "1.2.0"; anything else is compared as trimmed strings.
func Compare(installed, remote string) Verdict {
	installed = strings.TrimSpace(installed)
	remote = strings.TrimSpace(remote)

	if remote == "" {
		return VerdictUnknown
	}

	if installed == remote {
		return VerdictMatches
	}

	iv, ierr := semver.NewVersion(installed)
	rv, rerr := semver.NewVersion(remote)

	if ierr == nil && rerr == nil && iv.Equal(rv) {
		return VerdictMatches
	}

	return VerdictDiffers
}
