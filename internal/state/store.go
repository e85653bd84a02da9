package state

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/pkg/logger"
)

const (
	stateFilePermissions = 0o600
	stateDirPermissions  = 0o700
)

// Store reads and writes the install record file.
type Store struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithClock sets the time source used for UpdatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a Store backed by path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		logger: logger.NewNoOpLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the record file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the record. A missing or unparsable file yields a fresh record.
func (s *Store) Load() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // G304: path is from the XDG state dir
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("install record does not exist, using fresh record", "path", s.path)

		return NewRecord(), nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "reading install record")
	}

	rec := NewRecord()
	if err := json.Unmarshal(data, rec); err != nil {
		s.logger.Debug("failed to parse install record, using fresh record",
			"path", s.path,
			"error", err.Error(),
		)

		return NewRecord(), nil
	}

	return rec, nil
}

// Save writes the record atomically, stamping UpdatedAt.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec == nil {
		rec = NewRecord()
	}

	rec.UpdatedAt = s.now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), stateDirPermissions); err != nil {
		return errors.Wrap(err, "creating state directory")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling install record")
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, stateFilePermissions); err != nil {
		return errors.Wrap(err, "writing temp install record")
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)

		return errors.Wrap(err, "renaming install record")
	}

	s.logger.Debug("saved install record",
		"path", s.path,
		"phase", string(rec.Phase),
		"version", rec.Version,
	)

	return nil
}

// Clear removes the record file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "removing install record")
	}

	return nil
}
