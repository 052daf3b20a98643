package ports

import "go.trai.ch/runq/internal/core/domain"

// ResultStore persists the records of completed process steps.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ResultStore interface {
	// Append adds a record to the store.
	Append(record domain.RunRecord) error

	// List returns all records in insertion order.
	List() ([]domain.RunRecord, error)
}
