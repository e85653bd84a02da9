package coordinator

import (
	"path/filepath"

	"github.com/smykla-skalski/liftoff/internal/cache"
	"github.com/smykla-skalski/liftoff/internal/state"
)

// Layout classifies the cache directory content.
type Layout int

const (
	// LayoutMissing means the cache directory does not exist.
	LayoutMissing Layout = iota

	// LayoutEmpty means no archive and no usable payload.
	LayoutEmpty

	// LayoutArchiveValid means a readable archive is waiting for extraction.
	LayoutArchiveValid

	// LayoutArchiveInvalid means an archive is present but unreadable.
	LayoutArchiveInvalid

	// LayoutPayload means an extracted payload with its executable is present.
	LayoutPayload
)

func (l Layout) String() string {
	switch l {
	case LayoutMissing:
		return "missing"
	case LayoutEmpty:
		return "empty"
	case LayoutArchiveValid:
		return "archive-valid"
	case LayoutArchiveInvalid:
		return "archive-invalid"
	case LayoutPayload:
		return "payload"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Layout) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Classify derives the layout from a snapshot. An invalid archive always
// wins. When a valid archive sits next to a payload, the install record
// decides: if it says that payload was installed the archive is stray (the
// removal after extraction did not happen), otherwise the archive is still
// pending. A payload directory without its executable counts as empty.
func Classify(snap *cache.Snapshot, rec *state.Record) (layout Layout, strayArchive bool) {
	if snap == nil || !snap.Exists {
		return LayoutMissing, false
	}

	hasPayload := snap.HasPayload() && snap.Executable != ""

	switch snap.Archive {
	case cache.ArchiveInvalid:
		return LayoutArchiveInvalid, false
	case cache.ArchiveValid:
		if hasPayload && rec.IsInstalled(filepath.Base(snap.PayloadDir)) {
			return LayoutPayload, true
		}

		return LayoutArchiveValid, false
	case cache.ArchiveNone:
	}

	if hasPayload {
		return LayoutPayload, false
	}

	return LayoutEmpty, false
}
