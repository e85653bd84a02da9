// Package pathschecker provides health checkers for the directories liftoff writes to.
package pathschecker

import (
	"context"
	"fmt"
	"os"

	"github.com/smykla-skalski/liftoff/internal/doctor"
)

// FixCreateDirs is the fix ID for missing directories.
const FixCreateDirs = "create_dirs"

const checkName = "Directories writable"

// Dir is a directory the checker verifies.
type Dir struct {
	Name string
	Path string
}

// DirChecker verifies that directories exist and are writable.
type DirChecker struct {
	dirs []Dir
}

// NewDirChecker creates a checker for dirs.
func NewDirChecker(dirs ...Dir) *DirChecker {
	return &DirChecker{dirs: dirs}
}

// Name returns the name of the check.
func (*DirChecker) Name() string {
	return checkName
}

// Category returns the category of the check.
func (*DirChecker) Category() doctor.Category {
	return doctor.CategoryPaths
}

// Check verifies each directory exists and accepts a new file.
func (c *DirChecker) Check(_ context.Context) doctor.CheckResult {
	var missing []string

	for _, d := range c.dirs {
		info, err := os.Stat(d.Path)
		if err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, d.Name+": "+d.Path)

				continue
			}

			return doctor.FailError(checkName, fmt.Sprintf("Failed to stat %s: %v", d.Path, err))
		}

		if !info.IsDir() {
			return doctor.FailError(checkName, d.Path+" exists but is not a directory")
		}

		if err := probeWrite(d.Path); err != nil {
			return doctor.FailError(checkName, d.Name+" directory is not writable").
				WithDetails(fmt.Sprintf("Error: %v", err))
		}
	}

	if len(missing) > 0 {
		return doctor.FailWarning(checkName, "Some directories are missing").
			WithDetails(missing...).
			WithFixID(FixCreateDirs)
	}

	return doctor.Pass(checkName, "All directories present")
}

func probeWrite(dir string) error {
	f, err := os.CreateTemp(dir, ".liftoff-probe-*")
	if err != nil {
		return err
	}

	name := f.Name()
	_ = f.Close()

	return os.Remove(name)
}
