package embedding

import (
	"context"
	"math"
)

// MockClient provides a deterministic embedding client for testing.
type MockClient struct {
	dimension int
	// Fixed maps exact texts to canned vectors, overriding the hash
	// embedding. Lets tests pin similarity scores precisely.
	Fixed map[string][]float32
}

// NewMockClient creates a mock client that generates hash-based embeddings.
func NewMockClient(dimension int) *MockClient {
	if dimension <= 0 {
		dimension = 64
	}
	return &MockClient{dimension: dimension}
}

// Embed generates deterministic embeddings from character content.
func (c *MockClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := c.Fixed[text]; ok {
			embeddings[i] = v
			continue
		}
		vec := make([]float32, c.dimension)
		for j, char := range text {
			vec[j%c.dimension] += float32(char) / 1000.0
		}
		embeddings[i] = unitNorm(vec)
	}
	return embeddings, nil
}

// EmbedSingle generates a mock embedding for a single text.
func (c *MockClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// Model returns the mock model name.
func (c *MockClient) Model() string {
	return "mock-embedding-model"
}

// Dimension returns the embedding dimension.
func (c *MockClient) Dimension() int {
	return c.dimension
}

func unitNorm(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= norm
	}
	return v
}

var _ Embedder = (*MockClient)(nil)
