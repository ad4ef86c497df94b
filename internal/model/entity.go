package model

// RelevanceTier is a coarse bucket summarizing a continuous detection score
type RelevanceTier string

const (
	RelevanceHigh   RelevanceTier = "High"
	RelevanceMedium RelevanceTier = "Medium"
	RelevanceLow    RelevanceTier = "Low"
)

// TierForScore buckets a keyword-path detection score into a relevance tier.
// AI-path entities carry the tier reported by the oracle instead.
func TierForScore(score float64) RelevanceTier {
	switch {
	case score > 0.4:
		return RelevanceHigh
	case score > 0.2:
		return RelevanceMedium
	default:
		return RelevanceLow
	}
}

// DetectionMethod records which path produced an entity
type DetectionMethod string

const (
	MethodKeyword      DetectionMethod = "keyword"       // Deterministic keyword matcher
	MethodAI           DetectionMethod = "ai"            // Primary oracle detection
	MethodAIFallback   DetectionMethod = "ai_fallback"   // Plain-text name-per-line salvage
	MethodAIExtraction DetectionMethod = "ai_extraction" // Remedial extraction from the oracle's own summary
)

// DetectedEntity is an airline detected in a transcript, produced fresh per
// request and never persisted.
type DetectedEntity struct {
	Airline         string          `json:"airline"`
	Relevance       RelevanceTier   `json:"relevance"`
	Score           float64         `json:"score"`
	Matches         int             `json:"matches"`
	MentionCount    int             `json:"mention_count"`
	FirstMentionPos int             `json:"first_mention_position"`
	Method          DetectionMethod `json:"detection_method,omitempty"`
	Reason          string          `json:"reason,omitempty"` // Oracle-supplied justification, AI path only
}

// AirlineSpec is the per-airline block of the final analysis record
type AirlineSpec struct {
	Airline      string        `json:"airline"`
	Relevance    RelevanceTier `json:"relevance"`
	IsPrimary    bool          `json:"isPrimary"`
	Signals      []string      `json:"signals"`
	Themes       []string      `json:"themes"`
	Score        float64       `json:"score"`
	MentionCount int           `json:"mentionCount"`
}
