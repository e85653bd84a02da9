package coordinator

import "github.com/smykla-skalski/liftoff/internal/remote"

// DecideInput carries the facts besides layout and verdict that the
// decision depends on.
type DecideInput struct {
	// EverInstalled reports whether an installed version marker exists.
	EverInstalled bool

	// AllowOffline lets an installed payload be Ready when the remote
	// version is unknown.
	AllowOffline bool
}

// Decide maps a cache layout and a version verdict to a Status.
//
//	layout \ verdict | matches        | differs            | unknown
//	missing          | DownloadingApp | DownloadingApp     | DownloadingApp
//	empty            | DownloadingApp | DownloadingUpdate* | DownloadingApp
//	archive valid    | DownloadingApp | DownloadingUpdate* | DownloadingApp
//	archive invalid  | Failed         | Failed             | Failed
//	payload          | Ready          | DownloadingUpdate  | Ready if offline allowed, else DownloadingApp
//
// * DownloadingApp when nothing was ever installed.
func Decide(layout Layout, verdict remote.Verdict, in DecideInput) Status {
	switch layout {
	case LayoutArchiveInvalid:
		return StatusFailed

	case LayoutEmpty, LayoutArchiveValid:
		if verdict == remote.VerdictDiffers && in.EverInstalled {
			return StatusDownloadingUpdate
		}

		return StatusDownloadingApp

	case LayoutPayload:
		switch verdict {
		case remote.VerdictMatches:
			return StatusReady
		case remote.VerdictDiffers:
			return StatusDownloadingUpdate
		case remote.VerdictUnknown:
			if in.AllowOffline && in.EverInstalled {
				return StatusReady
			}
		}

		return StatusDownloadingApp

	case LayoutMissing:
		return StatusDownloadingApp

	default:
		return StatusDownloadingApp
	}
}
