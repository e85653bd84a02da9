package exec

//go:generate mockgen -source=spawn.go -destination=spawn_mock.go -package=exec

import (
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// Process describes a process to start.
type Process struct {
	// Argv holds the program followed by its arguments.
	Argv []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env is appended to the current environment.
	Env []string
}

// Spawner starts processes that outlive the caller.
type Spawner interface {
	// Spawn starts the process detached from the caller and returns its PID.
	Spawn(p Process) (int, error)
}

type spawner struct{}

// NewSpawner creates a Spawner that detaches children from the launcher's
// session so they keep running after it exits.
func NewSpawner() Spawner {
	return spawner{}
}

// Spawn starts the process and releases it without waiting.
func (spawner) Spawn(p Process) (int, error) {
	if len(p.Argv) == 0 || p.Argv[0] == "" {
		return 0, errors.New("empty command line")
	}

	//nolint:gosec // G204: argv comes from the launch command template
	cmd := exec.Command(p.Argv[0], p.Argv[1:]...)
	cmd.Dir = p.Dir
	cmd.Env = append(os.Environ(), p.Env...)
	cmd.SysProcAttr = detachedAttr()

	if err := cmd.Start(); err != nil {
		return 0, errors.Wrapf(err, "starting %s", p.Argv[0])
	}

	pid := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		return pid, errors.Wrap(err, "releasing process")
	}

	return pid, nil
}
