package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	News        NewsConfig        `yaml:"news"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Detection   DetectionConfig   `yaml:"detection"`
	Correlation CorrelationConfig `yaml:"correlation"`
	Cache       CacheConfig       `yaml:"cache"`
}

// LLMConfig configures the language-model oracle
type LLMConfig struct {
	Provider           string `yaml:"provider"` // "openai" or "" (disabled)
	Model              string `yaml:"model"`
	EmbeddingModel     string `yaml:"embedding_model"`
	TranscriptionModel string `yaml:"transcription_model"`
	APIKey             string `yaml:"api_key,omitempty"`
	BaseURL            string `yaml:"base_url,omitempty"` // Custom endpoints (e.g. Ollama-compatible)
	Timeout            int    `yaml:"timeout"`            // seconds, per call
	MaxTokens          int    `yaml:"max_tokens"`
}

// NewsConfig configures the news-search collaborator
type NewsConfig struct {
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url"`
	Timeout    int    `yaml:"timeout"` // seconds
	MaxResults int    `yaml:"max_results"`
	// FetchFullText enables fetching article pages when the API returns no body
	FetchFullText bool `yaml:"fetch_full_text"`
}

// FetchConfig configures the article page fetcher
type FetchConfig struct {
	UserAgent         string  `yaml:"user_agent"`
	Timeout           int     `yaml:"timeout"` // seconds
	MaxBodyBytes      int64   `yaml:"max_body_bytes"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // per domain
}

// DetectionConfig holds the primary-airline dominance thresholds. These are
// policy parameters, not derived values; defaults preserve legacy behavior.
type DetectionConfig struct {
	ScoreDominanceRatio   float64 `yaml:"score_dominance_ratio"`   // top beats second by this factor
	MentionDominanceRatio float64 `yaml:"mention_dominance_ratio"` // top mentions vs second
}

// CorrelationConfig configures claim verification
type CorrelationConfig struct {
	Enabled            bool    `yaml:"enabled"`
	ClaimThreshold     float64 `yaml:"claim_threshold"`       // min cosine for claim-article relevance
	ArticleThreshold   float64 `yaml:"article_threshold"`     // min cosine for plain correlation
	AutoVerifyAbove    float64 `yaml:"auto_verify_above"`     // similarity treated as verification on oracle failure
	EmbeddingWorkers   int     `yaml:"embedding_workers"`     // concurrent article embeddings per claim
	MinTargetedResults int     `yaml:"min_targeted_results"`  // widen search below this many hits
}

// CacheConfig configures the in-memory embedding cache
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:           "openai",
			Model:              "gpt-4o",
			EmbeddingModel:     "text-embedding-3-small",
			TranscriptionModel: "whisper-1",
			Timeout:            30,
			MaxTokens:          1000,
		},
		News: NewsConfig{
			BaseURL:       "https://newsapi.ai/api/v1/article/getArticles",
			Timeout:       30,
			MaxResults:    20,
			FetchFullText: true,
		},
		Fetch: FetchConfig{
			UserAgent:         "Aerovoice/0.1 (+https://github.com/aerovoice/aerovoice)",
			Timeout:           10,
			MaxBodyBytes:      2_000_000,
			RequestsPerSecond: 1.0,
		},
		Detection: DetectionConfig{
			ScoreDominanceRatio:   1.5,
			MentionDominanceRatio: 1.2,
		},
		Correlation: CorrelationConfig{
			Enabled:            true,
			ClaimThreshold:     0.6,
			ArticleThreshold:   0.5,
			AutoVerifyAbove:    0.8,
			EmbeddingWorkers:   4,
			MinTargetedResults: 10,
		},
		Cache: CacheConfig{
			TTL:             15 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
	}
}
