// Package ports defines the core interfaces for the application.
package ports

import "io"

// Invocation is a fully resolved process start request.
type Invocation struct {
	// Path is the resolved executable.
	Path string
	// Name is the command as the caller wrote it. It becomes argv[0].
	Name string
	Args []string
	Dir  string
	// Env holds "KEY=VALUE" entries.
	Env []string
}

// Spawner starts external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=spawner.go -destination=mocks/mock_spawner.go -package=mocks
type Spawner interface {
	// Spawn starts the invocation without waiting for it to exit.
	// A returned error means the process never started.
	Spawn(inv Invocation) (Process, error)
}

// Process is a handle to a started process.
type Process interface {
	// Pid returns the operating system process identifier.
	Pid() int
	// Stdout returns the standard output stream. It reaches EOF when the process closes it.
	Stdout() io.Reader
	// Stderr returns the standard error stream.
	Stderr() io.Reader
	// Wait blocks until the process exits and returns its exit code.
	// It must be called only after both streams have been drained.
	// A non-zero exit is reported through the code, not the error.
	Wait() (int, error)
}
