package ports

import "go.trai.ch/runq/internal/core/domain"

// ScriptLoader defines the interface for loading step scripts.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ScriptLoader interface {
	// Load reads the script at path and returns its steps.
	Load(path string) (*domain.Script, error)
}
