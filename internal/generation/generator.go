package generation

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Generator produces a free-form answer when retrieval finds nothing usable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config drives the chat-completion generator.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

const (
	defaultModel     = "command-r"
	defaultMaxTokens = 512
)

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint.
// Cohere's compatibility API works through the same client with a base URL.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIGenerator builds a generator from config, applying defaults for
// model and token limits.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation: api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(cfg.Temperature),
	}, nil
}

// ResolutionPrompt frames an unresolved issue description for the model.
func ResolutionPrompt(issue string) string {
	return "Provide a step-by-step process to resolve the following issue: " + strings.TrimSpace(issue)
}

// Generate runs one chat completion and returns the trimmed first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a machine maintenance assistant. Answer with practical, numbered repair steps.",
			},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// MockGenerator returns canned responses for tests.
type MockGenerator struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
