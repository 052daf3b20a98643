// Package journal implements the append-only store of completed process steps.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.trai.ch/runq/internal/core/domain"
	"go.trai.ch/runq/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultPath is the journal location relative to the working directory.
const DefaultPath = ".runq/journal.json"

var _ ports.ResultStore = (*Store)(nil)

// Store implements ports.ResultStore using a flat JSON file.
type Store struct {
	path    string
	mu      sync.RWMutex
	records []domain.RunRecord
}

// NewStore creates a new Store backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: filepath.Clean(path)}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read journal"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal journal"), "path", s.path)
	}

	return nil
}

// save must be called with s.mu held.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal journal")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for journal")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write journal"), "path", s.path)
	}

	return nil
}

// Append stores the record, assigning an ID and a sequence number when they are unset.
func (s *Store) Append(record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Sequence == 0 {
		record.Sequence = len(s.records) + 1
	}
	s.records = append(s.records, record)

	return s.save()
}

// List returns a copy of all records in insertion order.
func (s *Store) List() ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records), nil
}

// NewRecord converts a process result into a journal record.
// Output is stored as xxhash fingerprints, not verbatim.
func NewRecord(res domain.Result) domain.RunRecord {
	return domain.RunRecord{
		Command:      res.Command,
		Args:         slices.Clone(res.Args),
		Dir:          res.Dir,
		PID:          res.PID,
		ExitCode:     res.ExitCode,
		StdoutDigest: Fingerprint(res.Output.Stdout),
		StderrDigest: Fingerprint(res.Output.Stderr),
		StartedAt:    res.StartedAt,
		Duration:     res.Duration,
	}
}

// Fingerprint returns the hex xxhash of s.
func Fingerprint(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
