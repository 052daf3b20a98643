package domain

// EventName identifies a runner lifecycle event.
type EventName string

const (
	// EventStdout carries a raw chunk of standard output.
	EventStdout EventName = "stdout"
	// EventStderr carries a raw chunk of standard error.
	EventStderr EventName = "stderr"
	// EventExit carries the exit code of the process step that just finished.
	EventExit EventName = "exit"
)

// Event is published to listeners subscribed on a runner.
type Event struct {
	Name EventName
	// Chunk is set for stdout and stderr events.
	Chunk []byte
	// ExitCode is set for exit events.
	ExitCode int
}
