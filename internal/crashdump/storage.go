package crashdump

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// DirPerm is the directory permission for crash dump directories.
	DirPerm fs.FileMode = 0o700

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	// tempSuffix marks a dump that is still being written.
	tempSuffix = ".tmp"
)

// ErrWriteFailed is returned when writing a crash dump fails.
var ErrWriteFailed = errors.New("failed to write crash dump")

// Summary is the listing view of a crash dump.
type Summary struct {
	ID         string
	Path       string
	Timestamp  time.Time
	PanicValue string
}

// Storage keeps crash dumps in a directory.
type Storage struct {
	dir string
}

// NewStorage creates a Storage rooted at dir.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the dump directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Write stores info atomically and returns the file path.
func (s *Storage) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := os.MkdirAll(s.dir, DirPerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	path := filepath.Join(s.dir, info.ID+FileExtension)
	tempPath := path + tempSuffix

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, "failed to marshal crash info")
	}

	if err := os.WriteFile(tempPath, data, FilePerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)

		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	return path, nil
}

// List returns the stored dumps, newest first. Unreadable files are skipped.
func (s *Storage) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrap(err, "reading crash dump dir")
	}

	var summaries []Summary

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExtension) {
			continue
		}

		path := filepath.Join(s.dir, e.Name())

		//nolint:gosec // G304: path is inside the dump dir
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var info CrashInfo
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}

		summaries = append(summaries, Summary{
			ID:         info.ID,
			Path:       path,
			Timestamp:  info.Timestamp,
			PanicValue: info.PanicValue,
		})
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return summaries, nil
}

// Prune keeps the newest maxDumps dumps and returns how many were removed.
func (s *Storage) Prune(maxDumps int) (int, error) {
	summaries, err := s.List()
	if err != nil {
		return 0, err
	}

	removed := 0

	for i := maxDumps; i < len(summaries); i++ {
		if err := os.Remove(summaries[i].Path); err != nil {
			continue
		}

		removed++
	}

	return removed, nil
}
