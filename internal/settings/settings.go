// Package settings persists per-user launcher settings: the selected UI
// language and the installed version marker.
package settings

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FileMode is the settings file mode (user read/write only).
	FileMode = 0o600

	// DirMode is the settings directory mode (user rwx only).
	DirMode = 0o700

	header = "# liftoff user settings, managed by liftoff\n"
)

// Settings are the persisted user settings.
type Settings struct {
	// Language is the selected UI language tag, e.g. "ru-RU".
	Language string `toml:"language,omitempty"`

	// InstalledVersion is the remote version of the installed payload.
	InstalledVersion string `toml:"installed_version,omitempty"`

	UpdatedAt time.Time `toml:"updated_at,omitempty"`
}

// Store reads and writes the settings file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings. A missing file yields zero settings.
func (s *Store) Load() (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked()
}

// Update loads the settings, applies fn and saves the result.
func (s *Store) Update(fn func(*Settings)) (*Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	fn(current)
	current.UpdatedAt = s.now().UTC().Truncate(time.Second)

	if err := s.saveLocked(current); err != nil {
		return nil, err
	}

	return current, nil
}

func (s *Store) loadLocked() (*Settings, error) {
	//nolint:gosec // G304: path is from the XDG state dir
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to read settings file %s", s.path)
	}

	var out Settings
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to parse settings file %s", s.path),
			"delete the file to reset language and installed version",
		)
	}

	return &out, nil
}

func (s *Store) saveLocked(st *Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer

	buf.WriteString(header)

	if err := toml.NewEncoder(&buf).Encode(st); err != nil {
		return errors.Wrap(err, "failed to encode settings to TOML")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), FileMode); err != nil {
		return errors.Wrapf(err, "failed to write settings file %s", tmp)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)

		return errors.Wrapf(err, "failed to replace settings file %s", s.path)
	}

	return nil
}
