package progrock

import (
	"fmt"
	"io"
	"strings"

	"github.com/vito/progrock"
	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex is the recorded progress of one step.
type Vertex struct {
	rec *progrock.VertexRecorder
}

// Stdout returns the writer receiving the step's standard output.
func (v *Vertex) Stdout() io.Writer {
	return v.rec.Stdout()
}

// Stderr returns the writer receiving the step's standard error.
func (v *Vertex) Stderr() io.Writer {
	return v.rec.Stderr()
}

// Log writes msg to the vertex. Warnings and errors go to the error stream.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.rec.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.rec.Stderr()
	}
	_, _ = fmt.Fprintf(w, "runq: %s: %s\n", strings.ToLower(level.String()), msg)
}

// Complete finishes the vertex. A non-nil err marks the step failed.
func (v *Vertex) Complete(err error) {
	v.rec.Done(err)
}
