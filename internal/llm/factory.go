package llm

import (
	"fmt"
	"strings"

	"github.com/aerovoice/aerovoice/internal/model"
)

// NewOracle creates an oracle based on configuration. An empty provider name
// means the oracle is disabled and nil is returned; the pipeline then runs
// keyword-only with rule-based fallbacks.
func NewOracle(config model.LLMConfig) (Oracle, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIOracle(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}
