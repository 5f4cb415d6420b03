package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Jeyavarman-2005/mechmate/internal/embedding"
	"github.com/Jeyavarman-2005/mechmate/internal/observability"
	"github.com/Jeyavarman-2005/mechmate/internal/query"
	"github.com/Jeyavarman-2005/mechmate/internal/store"
)

// Matcher finds the record whose issue description is semantically closest
// to a free-form query. Record embeddings are computed once per snapshot
// generation and reused.
type Matcher struct {
	embedder  embedding.Embedder
	threshold float64
	logger    *observability.Logger

	mu      sync.Mutex
	keys    []string
	vectors [][]float32
	records []store.Record
}

// NewMatcher builds a matcher. A score must exceed threshold to count as a
// match.
func NewMatcher(embedder embedding.Embedder, threshold float64, logger *observability.Logger) *Matcher {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Matcher{embedder: embedder, threshold: threshold, logger: logger}
}

// Reset drops cached record embeddings. Call after the snapshot reloads.
func (m *Matcher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = nil
	m.vectors = nil
	m.records = nil
}

func (m *Matcher) ensureVectors(ctx context.Context, records []store.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vectors != nil && len(m.records) == len(records) {
		return nil
	}
	var keys []string
	var kept []store.Record
	for _, r := range records {
		key := query.Normalize(r.IssueDescription)
		if key == "" {
			continue
		}
		keys = append(keys, key)
		kept = append(kept, r)
	}
	if len(keys) == 0 {
		m.keys, m.vectors, m.records = nil, [][]float32{}, nil
		return nil
	}
	vectors, err := m.embedder.Embed(ctx, keys)
	if err != nil {
		return fmt.Errorf("embedding issue descriptions: %w", err)
	}
	m.keys = keys
	m.vectors = vectors
	m.records = kept
	m.logger.Debug().Int("count", len(keys)).Msg("issue embeddings cached")
	return nil
}

// Match embeds the query and returns the closest record when its cosine
// similarity strictly exceeds the threshold, otherwise ErrNotFound.
func (m *Matcher) Match(ctx context.Context, records []store.Record, question string) (FallbackMatch, error) {
	if err := m.ensureVectors(ctx, records); err != nil {
		return FallbackMatch{}, err
	}
	m.mu.Lock()
	vectors, kept := m.vectors, m.records
	m.mu.Unlock()
	if len(vectors) == 0 {
		return FallbackMatch{}, ErrNotFound
	}

	qv, err := m.embedder.EmbedSingle(ctx, query.Normalize(question))
	if err != nil {
		return FallbackMatch{}, fmt.Errorf("embedding query: %w", err)
	}
	bestIdx, bestScore := -1, 0.0
	for i, v := range vectors {
		if score := embedding.Cosine(qv, v); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 || bestScore <= m.threshold {
		m.logger.Debug().Float64("best_score", bestScore).Msg("no fallback match above threshold")
		return FallbackMatch{}, ErrNotFound
	}
	return FallbackMatch{Record: kept[bestIdx], Score: bestScore}, nil
}
