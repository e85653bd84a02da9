// Package coordinator implements the update/install state machine: it
// combines the remote version verdict with the cache directory layout into
// a Status, and drives install and launch from that status.
package coordinator

// Status is the launcher state shown to the user and driving the launch
// action.
type Status int

const (
	// StatusDownloadingApp means the payload must be downloaded.
	StatusDownloadingApp Status = iota

	// StatusDownloadingUpdate means a newer payload must be downloaded.
	StatusDownloadingUpdate

	// StatusReady means the cached payload can be launched.
	StatusReady

	// StatusFailed means the cache is unusable; installing again repairs it.
	StatusFailed
)

var statusNames = map[Status]string{
	StatusDownloadingApp:    "DownloadingApp",
	StatusDownloadingUpdate: "DownloadingUpdate",
	StatusReady:             "Ready",
	StatusFailed:            "Failed",
}

var statusTexts = map[Status]string{
	StatusDownloadingApp:    "Download the application",
	StatusDownloadingUpdate: "Download the update",
	StatusReady:             "Launch",
	StatusFailed:            "Installation failed, retry",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "Unknown"
}

// Text returns the action label for the status.
func (s Status) Text() string {
	return statusTexts[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsReady reports whether the payload can be launched.
func (s Status) IsReady() bool {
	return s == StatusReady
}
