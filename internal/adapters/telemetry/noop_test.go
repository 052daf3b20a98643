package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/runq/internal/adapters/telemetry"
	"go.trai.ch/runq/internal/core/domain"
)

func TestNoOp_Record(t *testing.T) {
	tel := telemetry.NewNoOp()

	vertex := tel.Record("echo hello")
	require.NotNil(t, vertex)
	assert.NotSame(t, vertex, tel.Record("echo hello"))

	n, err := vertex.Stdout().Write([]byte("discarded"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	vertex.Log(domain.LogLevelInfo, "ignored")
	vertex.Complete(nil)
	assert.NoError(t, tel.Close())
}
