// Package shell provides the process adapters backed by os/exec.
package shell

import (
	"errors"
	"io"
	"os/exec"

	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Spawner = (*Spawner)(nil)

// Spawner implements ports.Spawner using os/exec.
type Spawner struct{}

// NewSpawner creates a new Spawner.
func NewSpawner() *Spawner {
	return &Spawner{}
}

// Spawn starts the invocation with piped stdout and stderr.
// The process is not bound to a context and cannot be cancelled once started.
func (s *Spawner) Spawn(inv ports.Invocation) (ports.Process, error) {
	cmd := exec.Command(inv.Path, inv.Args...) //nolint:gosec // user provided command

	// exec.Command sets Args[0] to the executable path.
	// Restore the name as invoked.
	if inv.Name != "" {
		cmd.Args[0] = inv.Name
	}
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "path", inv.Path)
	}

	return &process{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type process struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

func (p *process) Pid() int {
	return p.cmd.Process.Pid
}

func (p *process) Stdout() io.Reader {
	return p.stdout
}

func (p *process) Stderr() io.Reader {
	return p.stderr
}

func (p *process) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was terminated by a signal.
		return exitErr.ExitCode(), nil
	}
	return -1, zerr.Wrap(err, "failed to wait for command")
}
