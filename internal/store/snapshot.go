package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jeyavarman-2005/mechmate/internal/observability"
)

// Store fetches a full snapshot of raw maintenance log rows. Implementations
// must return the same column set on every call.
type Store interface {
	FetchAll(ctx context.Context) ([]map[string]string, error)
}

// Snapshot owns the process-lifetime record cache. It is filled lazily on the
// first Records call and reused until Invalidate. Safe for concurrent use.
type Snapshot struct {
	store       Store
	logger      *observability.Logger
	dateLayouts []string

	mu      sync.Mutex
	loaded  bool
	records []Record
}

// NewSnapshot creates a snapshot backed by the given store.
func NewSnapshot(store Store, logger *observability.Logger, dateLayouts []string) *Snapshot {
	if len(dateLayouts) == 0 {
		dateLayouts = DefaultDateLayouts
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Snapshot{
		store:       store,
		logger:      logger,
		dateLayouts: dateLayouts,
	}
}

// Records returns the cached records, fetching them once from the store.
// The returned slice must not be mutated.
func (s *Snapshot) Records(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.records, nil
	}

	rows, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, warnings := FromRow(row, s.dateLayouts)
		for _, w := range warnings {
			s.logger.Warn().Int("row", i).Str("detail", w).Msg("Data quality deviation")
		}
		records = append(records, rec)
	}

	s.records = records
	s.loaded = true

	s.logger.Info().Int("records", len(records)).Msg("Snapshot loaded")
	return s.records, nil
}

// Invalidate discards the cached records. The next Records call refetches.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.records = nil
}

// Loaded reports whether the snapshot has been filled.
func (s *Snapshot) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}
