// Package cache inspects and maintains the local payload cache directory.
package cache

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/internal/archive"
)

const dirMode = 0o755

// ArchiveState describes the pending archive found in the cache dir.
type ArchiveState int

const (
	// ArchiveNone means no archive is present.
	ArchiveNone ArchiveState = iota

	// ArchiveValid means an archive is present and readable.
	ArchiveValid

	// ArchiveInvalid means an archive is present but cannot be read.
	ArchiveInvalid
)

func (s ArchiveState) String() string {
	switch s {
	case ArchiveValid:
		return "valid"
	case ArchiveInvalid:
		return "invalid"
	default:
		return "none"
	}
}

// Snapshot is the observed content of the cache directory.
type Snapshot struct {
	// Dir is the inspected directory.
	Dir string

	// Exists reports whether Dir existed before inspection.
	Exists bool

	// Empty reports whether Dir holds no entries.
	Empty bool

	// Archive is the state of the pending archive.
	Archive ArchiveState

	// ArchivePath is the absolute path of the pending archive, if any.
	ArchivePath string

	// ArchiveErr explains why an archive is invalid.
	ArchiveErr error

	// PayloadDir is the absolute path of the extracted payload, if any.
	PayloadDir string

	// Executable is the absolute path of the payload entry point, if found.
	Executable string
}

// HasPayload reports whether an extracted payload directory is present.
func (s *Snapshot) HasPayload() bool {
	return s.PayloadDir != ""
}

// Inspector inspects a cache directory.
type Inspector struct {
	dir               string
	archivePattern    string
	executablePattern string
}

// NewInspector creates an Inspector for dir. archivePattern matches pending
// archives at the top level; executablePattern locates the payload entry
// point relative to dir.
func NewInspector(dir, archivePattern, executablePattern string) *Inspector {
	return &Inspector{
		dir:               dir,
		archivePattern:    archivePattern,
		executablePattern: executablePattern,
	}
}

// Dir returns the cache directory.
func (i *Inspector) Dir() string {
	return i.dir
}

// Inspect reads the cache directory without modifying it.
func (i *Inspector) Inspect() (*Snapshot, error) {
	snap := &Snapshot{Dir: i.dir}

	entries, err := os.ReadDir(i.dir)
	if errors.Is(err, fs.ErrNotExist) {
		snap.Empty = true

		return snap, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "reading cache dir %s", i.dir)
	}

	snap.Exists = true
	snap.Empty = len(entries) == 0

	var (
		archives []string
		firstDir string
	)

	for _, e := range entries {
		switch {
		case e.IsDir():
			if firstDir == "" {
				firstDir = filepath.Join(i.dir, e.Name())
			}
		case e.Type().IsRegular():
			if ok, _ := doublestar.Match(i.archivePattern, e.Name()); ok {
				archives = append(archives, e.Name())
			}
		}
	}

	if len(archives) > 0 {
		slices.Sort(archives)
		snap.ArchivePath = filepath.Join(i.dir, archives[0])
		snap.Archive = ArchiveValid

		if err := archive.Validate(snap.ArchivePath); err != nil {
			snap.Archive = ArchiveInvalid
			snap.ArchiveErr = err
		}
	}

	if firstDir == "" {
		return snap, nil
	}

	exe, err := i.FindExecutable()
	if err != nil {
		return nil, err
	}

	// The payload is the directory holding the executable, so both fields
	// always describe the same build.
	snap.Executable = exe
	snap.PayloadDir = i.PayloadOf(exe)

	if snap.PayloadDir == "" {
		snap.PayloadDir = firstDir
	}

	return snap, nil
}

// FindExecutable returns the first file matching the executable pattern,
// or "" when nothing matches.
func (i *Inspector) FindExecutable() (string, error) {
	return i.FindExecutableIn()
}

// FindExecutableIn is FindExecutable limited to the named top-level
// entries of the cache dir. Without names every entry is searched.
func (i *Inspector) FindExecutableIn(names ...string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(i.dir), i.executablePattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", errors.Wrapf(err, "matching executable pattern %q", i.executablePattern)
	}

	slices.Sort(matches)

	for _, m := range matches {
		first, _, _ := strings.Cut(m, "/")

		if len(names) == 0 || slices.Contains(names, first) {
			return filepath.Join(i.dir, filepath.FromSlash(m)), nil
		}
	}

	return "", nil
}

// PayloadOf returns the top-level subdirectory of the cache dir that
// contains path, or "" when path is not inside one.
func (i *Inspector) PayloadOf(path string) string {
	if path == "" {
		return ""
	}

	rel, err := filepath.Rel(i.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	first, _, found := strings.Cut(filepath.ToSlash(rel), "/")
	if !found {
		return ""
	}

	return filepath.Join(i.dir, first)
}

// RemoveDirsExcept removes every top-level directory of the cache dir not
// named in keep. Files are left alone.
func (i *Inspector) RemoveDirsExcept(keep ...string) error {
	entries, err := os.ReadDir(i.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "reading cache dir %s", i.dir)
	}

	var errs error

	for _, e := range entries {
		if !e.IsDir() || slices.Contains(keep, e.Name()) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(i.dir, e.Name())); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "removing %s", e.Name()))
		}
	}

	return errs
}

// Ensure creates the cache directory if it doesn't exist.
func (i *Inspector) Ensure() error {
	if err := os.MkdirAll(i.dir, dirMode); err != nil {
		return errors.Wrapf(err, "creating cache dir %s", i.dir)
	}

	return nil
}

// Clear removes every entry in the cache directory, keeping the directory.
func (i *Inspector) Clear() error {
	entries, err := os.ReadDir(i.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "reading cache dir %s", i.dir)
	}

	var errs error

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(i.dir, e.Name())); err != nil {
			errs = errors.CombineErrors(errs, errors.Wrapf(err, "removing %s", e.Name()))
		}
	}

	return errs
}
