package ports

import (
	"io"

	"go.trai.ch/runq/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of executed steps.
type Telemetry interface {
	// Record starts a vertex for one step.
	Record(name string) Vertex
	// Close flushes the recording session.
	Close() error
}

// Vertex is the telemetry handle of a single step.
type Vertex interface {
	// Stdout returns a writer receiving the step's standard output.
	Stdout() io.Writer
	// Stderr returns a writer receiving the step's standard error.
	Stderr() io.Writer
	// Log records a message associated with this vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
}
