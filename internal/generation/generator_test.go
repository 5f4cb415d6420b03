package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolutionPrompt(t *testing.T) {
	p := ResolutionPrompt("  spindle overheating  ")
	assert.Equal(t, "Provide a step-by-step process to resolve the following issue: spindle overheating", p)
}

func TestNewOpenAIGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIGenerator(Config{})
	assert.Error(t, err)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "bearing failure")

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: " 1. Stop the machine.\n2. Inspect the bearing. "}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator(Config{APIKey: "test", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), ResolutionPrompt("bearing failure"))
	require.NoError(t, err)
	assert.Equal(t, "1. Stop the machine.\n2. Inspect the bearing.", out)
}

func TestMockGenerator(t *testing.T) {
	m := &MockGenerator{Response: "steps"}

	out, err := m.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "steps", out)
	assert.Equal(t, []string{"prompt"}, m.Prompts)
}
