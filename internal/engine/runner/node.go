package runner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/runq/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/runq/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/runq/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/runq/internal/core/ports"
)

// NodeID is the unique identifier for the runner factory Graft node.
const NodeID graft.ID = "engine.runner"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.SpawnerNodeID,
			shell.ResolverNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			spawner, err := graft.Dep[ports.Spawner](ctx)
			if err != nil {
				return nil, err
			}

			resolver, err := graft.Dep[ports.ExecutableResolver](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewFactory(spawner, resolver, log, tel), nil
		},
	})
}
