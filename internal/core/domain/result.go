package domain

import (
	"strings"
	"time"
)

// Output holds the text captured from a process.
type Output struct {
	Stdout string
	Stderr string
	// Combined interleaves both streams in chunk arrival order.
	Combined string
}

// Result describes the last completed process step.
type Result struct {
	Command   string
	Args      []string
	Dir       string
	PID       int
	ExitCode  int
	Output    Output
	StartedAt time.Time
	Duration  time.Duration
}

// FormatCommand renders a command line for display.
func FormatCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}
