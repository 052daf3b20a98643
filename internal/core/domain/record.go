package domain

import "time"

// RunRecord is the journal entry written for one completed process step.
type RunRecord struct {
	ID           string        `json:"id,omitzero"`
	Sequence     int           `json:"sequence,omitzero"`
	Command      string        `json:"command,omitzero"`
	Args         []string      `json:"args,omitempty"`
	Dir          string        `json:"dir,omitzero"`
	PID          int           `json:"pid,omitzero"`
	ExitCode     int           `json:"exit_code"`
	StdoutDigest string        `json:"stdout_digest,omitzero"`
	StderrDigest string        `json:"stderr_digest,omitzero"`
	StartedAt    time.Time     `json:"started_at,omitzero"`
	Duration     time.Duration `json:"duration,omitzero"`
}
