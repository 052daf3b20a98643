package domain

import "go.trai.ch/zerr"

var (
	// ErrExecutableNotFound is returned when a process step's command cannot be located on the search path.
	ErrExecutableNotFound = zerr.New("executable not found")

	// ErrSpawnFailed is returned when a resolved executable could not be started.
	ErrSpawnFailed = zerr.New("failed to start process")

	// ErrEmptyCommand is returned when a process step has no command.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrCallbackFailed is returned when a callback step reports an error.
	ErrCallbackFailed = zerr.New("callback step failed")

	// ErrUnknownStep is returned when the executor receives a step type it does not handle.
	ErrUnknownStep = zerr.New("unknown step type")

	// ErrInvalidScript is returned when a script file cannot be turned into steps.
	ErrInvalidScript = zerr.New("invalid script")

	// ErrExpectationFailed is returned when an expect step does not match the last result.
	ErrExpectationFailed = zerr.New("expectation failed")

	// ErrRunFailed is returned by the application when the queue halted.
	ErrRunFailed = zerr.New("run failed")
)
