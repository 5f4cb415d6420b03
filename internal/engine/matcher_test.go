package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeyavarman-2005/mechmate/internal/embedding"
)

// unitVec builds a unit vector whose cosine against (1,0,0,0) is exactly x.
func unitVec(x float64) []float32 {
	y := math.Sqrt(1 - x*x)
	return []float32{float32(x), float32(y), 0, 0}
}

func TestMatcher_AcceptsAboveThreshold(t *testing.T) {
	mock := embedding.NewMockClient(4)
	mock.Fixed = map[string][]float32{
		"bearing failure":           {1, 0, 0, 0},
		"spindle overheating":       {0, 0, 1, 0},
		"my machine bearing is bad": unitVec(0.81),
	}

	m := NewMatcher(mock, 0.5, nil)
	match, err := m.Match(context.Background(), fixture()[:3], "My machine bearing is bad!")
	require.NoError(t, err)
	assert.Equal(t, "Bearing Failure", match.Record.IssueDescription)
	assert.InDelta(t, 0.81, match.Score, 0.01)
}

func TestMatcher_RejectsBelowThreshold(t *testing.T) {
	mock := embedding.NewMockClient(4)
	mock.Fixed = map[string][]float32{
		"bearing failure":     {1, 0, 0, 0},
		"spindle overheating": {0, 0, 1, 0},
		"chatter marks":       {0, 0, 0, 1},
		"loose belt tension":  unitVec(0.40),
	}

	m := NewMatcher(mock, 0.5, nil)
	_, err := m.Match(context.Background(), fixture(), "Loose belt tension?")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMatcher_EmptyRecords(t *testing.T) {
	m := NewMatcher(embedding.NewMockClient(4), 0.5, nil)
	_, err := m.Match(context.Background(), nil, "anything")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMatcher_ResetRecomputes(t *testing.T) {
	mock := embedding.NewMockClient(8)
	m := NewMatcher(mock, 0.99, nil)

	records := fixture()
	_, err := m.Match(context.Background(), records, "bearing failure")
	// Identical text embeds identically, so the match is exact.
	require.NoError(t, err)

	m.Reset()
	match, err := m.Match(context.Background(), records, "bearing failure")
	require.NoError(t, err)
	assert.Greater(t, match.Score, 0.99)
}
