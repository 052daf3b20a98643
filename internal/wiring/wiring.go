// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/runq/internal/adapters/config"
	_ "go.trai.ch/runq/internal/adapters/journal"
	_ "go.trai.ch/runq/internal/adapters/logger"
	_ "go.trai.ch/runq/internal/adapters/shell"
	_ "go.trai.ch/runq/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/runq/internal/app"
	_ "go.trai.ch/runq/internal/engine/runner"
)
