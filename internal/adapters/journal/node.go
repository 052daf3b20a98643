package journal

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/runq/internal/core/ports"
)

// NodeID is the unique identifier for the journal Graft node.
const NodeID graft.ID = "adapter.result_store"

func init() {
	graft.Register(graft.Node[ports.ResultStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ResultStore, error) {
			return NewStore(DefaultPath)
		},
	})
}
