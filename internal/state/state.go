// Package state persists the install record: what the launcher last did to
// the cache directory and which payload it left there.
package state

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Phase is the install lifecycle stage recorded on disk.
type Phase string

const (
	// PhaseNone means nothing was installed by this launcher.
	PhaseNone Phase = "none"

	// PhaseDownloading means an archive download or extraction started and
	// has not completed.
	PhaseDownloading Phase = "downloading"

	// PhaseInstalled means the payload was extracted and the archive removed.
	PhaseInstalled Phase = "installed"
)

// ErrInvalidPhase is returned when decoding an unknown phase.
var ErrInvalidPhase = errors.New("invalid install phase")

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	switch v := Phase(text); v {
	case PhaseNone, PhaseDownloading, PhaseInstalled:
		*p = v
	case "":
		*p = PhaseNone
	default:
		return errors.Wrapf(ErrInvalidPhase, "%q", string(text))
	}

	return nil
}

// Record is the persisted install record.
type Record struct {
	Phase Phase `json:"phase"`

	// Version is the remote version of the installed payload.
	Version string `json:"version,omitempty"`

	// Archive is the archive file name of the last download.
	Archive string `json:"archive,omitempty"`

	// Payload is the payload directory name relative to the cache dir.
	Payload string `json:"payload,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{Phase: PhaseNone}
}

// IsInstalled reports whether the record says payload was installed.
func (r *Record) IsInstalled(payload string) bool {
	return r != nil && r.Phase == PhaseInstalled && r.Payload != "" && r.Payload == payload
}
