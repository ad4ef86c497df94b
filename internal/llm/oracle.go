package llm

import "context"

// EmbeddingDim is the fixed dimensionality of embedding vectors
// (text-embedding-3-small).
const EmbeddingDim = 1536

// Oracle is the language-model capability injected into pipeline components.
// It is constructed once per service and passed by reference; components never
// instantiate their own clients.
type Oracle interface {
	// Name returns the provider name
	Name() string

	// Complete generates a text completion for a system+user prompt pair.
	// Completions may be malformed relative to the requested schema; callers
	// own the salvage logic.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Embed returns an embedding vector for a text span. On any failure it
	// returns the zero vector and no error, so downstream cosine similarity
	// degrades to 0 instead of raising.
	Embed(ctx context.Context, text string) []float32

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one oracle call
type CompletionRequest struct {
	// System sets the assistant role (e.g. "You are a fact-checker...")
	System string

	// Prompt is the user message
	Prompt string

	// Temperature for generation; zero value means the provider default (0.3)
	Temperature float32

	// MaxTokens limits the response length; zero means the configured default
	MaxTokens int

	// JSONObject requests a JSON-object response format where the provider
	// supports it. The completion may still be malformed.
	JSONObject bool
}

// ZeroVector returns a fresh zero embedding
func ZeroVector() []float32 {
	return make([]float32, EmbeddingDim)
}
