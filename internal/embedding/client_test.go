package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"bearing failure", "chatter marks"}, req.Input)

		resp := EmbeddingResponse{
			Object: "list",
			Model:  req.Model,
			Data: []EmbeddingData{
				{Index: 1, Embedding: []float32{0, 1}},
				{Index: 0, Embedding: []float32{1, 0}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Dimension: 2})
	require.NoError(t, err)

	vecs, err := c.Embed(context.Background(), []string{"bearing failure", "chatter marks"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	// Results come back in request order even when the API reorders them.
	assert.Equal(t, []float32{1, 0}, vecs[0])
	assert.Equal(t, []float32{0, 1}, vecs[1])
}

func TestClient_EmbedAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(EmbeddingResponse{
			Error: &EmbeddingError{Message: "invalid api key", Type: "auth"},
		})
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, expected: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, expected: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, expected: -1},
		{name: "mismatched lengths", a: []float32{1}, b: []float32{1, 0}, expected: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Cosine(tc.a, tc.b), 1e-9)
		})
	}
}

func TestMockClient_Deterministic(t *testing.T) {
	c := NewMockClient(8)

	a, err := c.EmbedSingle(context.Background(), "bearing failure")
	require.NoError(t, err)
	b, err := c.EmbedSingle(context.Background(), "bearing failure")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, Cosine(a, b), 1e-6)
}
