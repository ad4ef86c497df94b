package model

import "time"

// AnalysisRecord is the complete analysis of one transcript. It is built once
// per request, immutable afterwards, and serialized as-is for the caller.
// Field names are part of the wire contract.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`   // 20-800 chars, post fallback
	Keywords  []string  `json:"keywords"`  // Up to 12
	Themes    []string  `json:"themes"`    // Up to 3
	Timestamp time.Time `json:"timestamp"`

	MarketSignals            []MarketSignal `json:"marketSignals"` // Up to 5
	Sentiment                Sentiment      `json:"sentiment"`
	ConfidenceScore          float64        `json:"confidenceScore"`
	PredictiveProbabilities  []Prediction   `json:"predictiveProbabilities"` // Up to 5

	AirlineSpecifications []AirlineSpec `json:"airlineSpecifications"`
	PrimaryAirline        string        `json:"primaryAirline,omitempty"`
	AllAirlines           []string      `json:"allAirlines"`
	OriginalTheme         string        `json:"originalTheme,omitempty"`

	// One-to-Many: Airline -> [Themes]; Many-to-One: Theme -> [Airlines].
	// The two maps are always exact inverses of each other.
	AirlineThemeMap map[string][]string `json:"airlineThemeMap"`
	ThemeAirlineMap map[string][]string `json:"themeAirlineMap"`

	Correlation *CorrelationResult `json:"correlation"`
}

// SignalStrength grades a market signal
type SignalStrength string

const (
	StrengthStrong   SignalStrength = "Strong"
	StrengthModerate SignalStrength = "Moderate"
	StrengthWeak     SignalStrength = "Weak"
)

// SignalTrend is the direction a market signal points
type SignalTrend string

const (
	TrendUp     SignalTrend = "up"
	TrendDown   SignalTrend = "down"
	TrendStable SignalTrend = "stable"
)

// MarketSignal is one parsed market indicator
type MarketSignal struct {
	Signal   string         `json:"signal"`
	Strength SignalStrength `json:"strength"`
	Trend    SignalTrend    `json:"trend"`
}

// SentimentLabel is the overall sentiment classification
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// Sentiment holds the overall label, a score in [0,1], and a heuristic
// percentage breakdown derived from the label rather than a true distribution.
type Sentiment struct {
	Overall   SentimentLabel     `json:"overall"`
	Score     float64            `json:"score"`
	Breakdown SentimentBreakdown `json:"breakdown"`
}

// SentimentBreakdown is the rough positive/neutral/negative split in percent
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// NeutralSentiment is the fallback sentiment when no analysis is available
func NeutralSentiment() Sentiment {
	return Sentiment{
		Overall:   SentimentNeutral,
		Score:     0.5,
		Breakdown: SentimentBreakdown{Positive: 33, Neutral: 34, Negative: 33},
	}
}

// Prediction is a forward-looking probability extracted from the completion
type Prediction struct {
	Event       string `json:"event"`
	Probability int    `json:"probability"` // 0-100
}
