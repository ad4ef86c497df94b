package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aerovoice/aerovoice/internal/model"
)

// OpenAIOracle implements the Oracle interface on the OpenAI API
// (or any compatible endpoint via BaseURL).
type OpenAIOracle struct {
	client *openai.Client
	config model.LLMConfig
}

// NewOpenAIOracle creates a new OpenAI-backed oracle
func NewOpenAIOracle(config model.LLMConfig) (*OpenAIOracle, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIOracle{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (o *OpenAIOracle) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (o *OpenAIOracle) IsAvailable(ctx context.Context) bool {
	_, err := o.client.ListModels(ctx)
	if err != nil {
		log.Printf("OpenAI API check failed: %v", err)
		return false
	}
	return true
}

// Complete generates a chat completion
func (o *OpenAIOracle) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatModel := o.config.Model
	if chatModel == "" {
		chatModel = openai.GPT4o
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = o.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if req.JSONObject {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns the embedding for text, or the zero vector on any failure
func (o *OpenAIOracle) Embed(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return ZeroVector()
	}

	embModel := o.config.EmbeddingModel
	if embModel == "" {
		embModel = string(openai.SmallEmbedding3)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	resp, err := o.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(embModel),
	})
	if err != nil {
		log.Printf("embedding generation failed: %v", err)
		return ZeroVector()
	}
	if len(resp.Data) == 0 {
		return ZeroVector()
	}

	return resp.Data[0].Embedding
}

func (o *OpenAIOracle) timeout() time.Duration {
	if o.config.Timeout > 0 {
		return time.Duration(o.config.Timeout) * time.Second
	}
	return 30 * time.Second
}
