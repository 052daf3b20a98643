package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/runq/internal/core/ports"
)

const (
	// SpawnerNodeID is the unique identifier for the process spawner Graft node.
	SpawnerNodeID graft.ID = "adapter.spawner"
	// ResolverNodeID is the unique identifier for the executable resolver Graft node.
	ResolverNodeID graft.ID = "adapter.resolver"
)

func init() {
	graft.Register(graft.Node[ports.Spawner]{
		ID:        SpawnerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Spawner, error) {
			return NewSpawner(), nil
		},
	})

	graft.Register(graft.Node[ports.ExecutableResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ExecutableResolver, error) {
			return NewResolver(), nil
		},
	})
}
