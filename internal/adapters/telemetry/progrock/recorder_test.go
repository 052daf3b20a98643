package progrock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/runq/internal/adapters/telemetry/progrock"
	"go.trai.ch/runq/internal/core/domain"
)

func TestRecorder_RecordsSteps(t *testing.T) {
	recorder := progrock.New()

	first := recorder.Record("echo hello")
	require.NotNil(t, first)

	_, err := first.Stdout().Write([]byte("hello\n"))
	require.NoError(t, err)
	_, err = first.Stderr().Write([]byte("warning\n"))
	require.NoError(t, err)
	first.Log(domain.LogLevelWarn, "exit code 1")
	first.Complete(nil)

	// Re-running the same command must not reuse the finished vertex.
	second := recorder.Record("echo hello")
	assert.NotSame(t, first, second)
	second.Complete(errors.New("boom"))

	assert.NoError(t, recorder.Close())
}
