package llm

import (
	"context"
	"net/http"
	"time"
)

// RoleUser is the chat role of the reasoning prompt
const RoleUser = "user"

// Provider defines the interface for chat-completion backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model identifier requests are sent to
	Model() string

	// Complete runs one chat completion at zero temperature
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// Message is one chat turn
type Message struct {
	Role    string
	Content string
}

// CompletionRequest contains the input for a single completion
type CompletionRequest struct {
	Messages []Message

	// Stop sequences end generation early; the reasoning loop relies on this
	// to halt before the model invents its own observations
	Stop []string

	// MaxTokens limits the response length (0 uses the provider default)
	MaxTokens int
}

// CompletionResponse contains the model output
type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	TokensUsed   int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider; supplied per request, never read from the environment here
	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for a single API request
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// HTTPClient carries proxy settings; nil uses the SDK default
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Model:     "gpt-4o",
		Timeout:   60 * time.Second,
		MaxTokens: 1500,
	}
}
