package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeyavarman-2005/mechmate/internal/embedding"
)

func TestSemanticClassifier_AcceptsAboveThreshold(t *testing.T) {
	mock := embedding.NewMockClient(4)
	fixed := map[string][]float32{
		"what keeps breaking": {0.9, 0.1, 0, 0},
	}
	for _, examples := range intentExamples {
		for _, p := range examples {
			fixed[p] = []float32{0, 0, 1, 0}
		}
	}
	fixed["which problem occurs most often"] = []float32{1, 0, 0, 0}
	mock.Fixed = fixed

	c := NewSemanticClassifier(mock, 0.5)
	cls, err := c.ClassifyContext(context.Background(), "What keeps breaking?", Entities{})
	require.NoError(t, err)
	assert.Equal(t, IntentMostRepeatedIssue, cls.Intent)
	assert.Greater(t, cls.Confidence, 0.5)
	assert.Equal(t, "which problem occurs most often", cls.Trigger)
}

func TestSemanticClassifier_RejectsBelowThreshold(t *testing.T) {
	mock := embedding.NewMockClient(4)
	fixed := map[string][]float32{
		// Orthogonal to every example phrase.
		"tell me a joke": {0, 0, 0, 1},
	}
	for _, examples := range intentExamples {
		for _, p := range examples {
			fixed[p] = []float32{1, 0, 0, 0}
		}
	}
	mock.Fixed = fixed

	c := NewSemanticClassifier(mock, 0.5)
	cls, err := c.ClassifyContext(context.Background(), "Tell me a joke!", Entities{})
	require.NoError(t, err)
	assert.Equal(t, IntentGeneralQuery, cls.Intent)
	assert.Zero(t, cls.Confidence)
}

func TestSemanticClassifier_GuardsMissingEntities(t *testing.T) {
	mock := embedding.NewMockClient(4)
	fixed := map[string][]float32{
		"when was it last fixed": {1, 0, 0, 0},
	}
	for _, examples := range intentExamples {
		for _, p := range examples {
			fixed[p] = []float32{0, 1, 0, 0}
		}
	}
	for _, p := range intentExamples[IntentLastRepairDate] {
		fixed[p] = []float32{1, 0, 0, 0}
	}
	mock.Fixed = fixed

	c := NewSemanticClassifier(mock, 0.5)

	cls, err := c.ClassifyContext(context.Background(), "When was it last fixed?", Entities{})
	require.NoError(t, err)
	assert.Equal(t, IntentGeneralQuery, cls.Intent)

	cls, err = c.ClassifyContext(context.Background(), "When was it last fixed?", Entities{MachineID: "MM001"})
	require.NoError(t, err)
	assert.Equal(t, IntentLastRepairDate, cls.Intent)
}
