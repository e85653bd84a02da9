package coordinator

import (
	"encoding/json"
	"time"

	"github.com/smykla-skalski/liftoff/internal/remote"
)

// Report is the outcome of a status refresh.
type Report struct {
	Status           Status         `json:"status"`
	Layout           Layout         `json:"layout"`
	Verdict          remote.Verdict `json:"verdict"`
	RemoteVersion    string         `json:"remote_version,omitempty"`
	InstalledVersion string         `json:"installed_version,omitempty"`
	Language         string         `json:"language"`
	CacheDir         string         `json:"cache_dir"`
	PayloadDir       string         `json:"payload_dir,omitempty"`
	Executable       string         `json:"executable,omitempty"`
	ArchivePath      string         `json:"archive_path,omitempty"`
	CheckedAt        time.Time      `json:"checked_at"`
	Duration         time.Duration  `json:"-"`

	// Problems are the non-fatal errors met during the refresh.
	Problems []error `json:"-"`
}

func (r *Report) addProblem(err error) {
	if err != nil {
		r.Problems = append(r.Problems, err)
	}
}

// MarshalJSON adds the status text and problems as strings.
func (r *Report) MarshalJSON() ([]byte, error) {
	type plain Report

	problems := make([]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		problems = append(problems, p.Error())
	}

	return json.Marshal(struct {
		*plain
		Text       string   `json:"text"`
		DurationMS int64    `json:"duration_ms"`
		Problems   []string `json:"problems"`
	}{
		plain:      (*plain)(r),
		Text:       r.Status.Text(),
		DurationMS: r.Duration.Milliseconds(),
		Problems:   problems,
	})
}
