// Package archive validates and extracts zip archives of the payload.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	dirMode         = 0o755
	defaultFileMode = 0o644
)

var (
	// ErrCorruptArchive is returned when an archive cannot be read.
	ErrCorruptArchive = errors.New("archive is corrupt")

	// ErrPathTraversal is returned when an entry would be written outside
	// the destination directory.
	ErrPathTraversal = errors.New("archive entry escapes destination")
)

// Validate opens the archive and reads every entry, so checksum and
// truncation problems surface here rather than halfway through extraction.
func Validate(archivePath string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "opening %s", filepath.Base(archivePath)), ErrCorruptArchive)
	}
	defer r.Close() //nolint:errcheck // read-only zip

	for _, f := range r.File {
		if err := readEntry(f); err != nil {
			return errors.Mark(errors.Wrapf(err, "reading entry %s", f.Name), ErrCorruptArchive)
		}
	}

	return nil
}

func readEntry(f *zip.File) error {
	if f.FileInfo().IsDir() {
		return nil
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close() //nolint:errcheck // read-only entry

	_, err = io.Copy(io.Discard, rc)

	return err
}

// ExtractAll extracts the archive into destDir, overwriting existing files.
// It returns the sorted top-level entry names. Symlink entries are skipped.
func ExtractAll(archivePath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", filepath.Base(archivePath)), ErrCorruptArchive)
	}
	defer r.Close() //nolint:errcheck // read-only zip

	if err := os.MkdirAll(destDir, dirMode); err != nil {
		return nil, errors.Wrap(err, "creating destination directory")
	}

	var top []string

	for _, f := range r.File {
		name := strings.ReplaceAll(f.Name, `\`, "/")

		dest, err := safePath(destDir, name)
		if err != nil {
			return nil, err
		}

		if first := topLevel(name); first != "" && !slices.Contains(top, first) {
			top = append(top, first)
		}

		mode := f.Mode()

		switch {
		case mode.IsDir():
			if err := os.MkdirAll(dest, dirMode); err != nil {
				return nil, errors.Wrapf(err, "creating directory %s", name)
			}
		case mode&os.ModeSymlink != 0:
			continue
		default:
			if err := extractFile(f, dest); err != nil {
				return nil, errors.Wrapf(err, "extracting %s", name)
			}
		}
	}

	slices.Sort(top)

	return top, nil
}

func topLevel(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || name == "." {
		return ""
	}

	first, _, _ := strings.Cut(name, "/")

	return first
}

// safePath validates that name resolves to a path within baseDir, preventing
// path traversal (Zip Slip) attacks from crafted archive entries.
func safePath(baseDir, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", errors.Wrapf(ErrPathTraversal, "%q is absolute", name)
	}

	cleanBase := filepath.Clean(baseDir) + string(os.PathSeparator)
	cleanDest := filepath.Clean(filepath.Join(baseDir, filepath.FromSlash(name)))

	if cleanDest+string(os.PathSeparator) != cleanBase && !strings.HasPrefix(cleanDest, cleanBase) {
		return "", errors.Wrapf(ErrPathTraversal, "%q escapes %q", name, baseDir)
	}

	return cleanDest, nil
}

//nolint:gosec // G304: dest is validated by safePath
func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), dirMode); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = defaultFileMode
	}

	rc, err := f.Open()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "opening zip entry"), ErrCorruptArchive)
	}
	defer rc.Close() //nolint:errcheck // read-only entry

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrap(err, "creating extracted file")
	}

	_, copyErr := io.Copy(out, rc)

	if closeErr := out.Close(); closeErr != nil && copyErr == nil {
		return errors.Wrap(closeErr, "closing extracted file")
	}

	if copyErr != nil {
		return errors.Wrap(copyErr, "writing extracted file")
	}

	return nil
}
