package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/runq/internal/adapters/logger"
	"go.trai.ch/runq/internal/core/ports"
)

// NodeID is the unique identifier for the script loader Graft node.
const NodeID graft.ID = "adapter.script_loader"

func init() {
	graft.Register(graft.Node[ports.ScriptLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ScriptLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
