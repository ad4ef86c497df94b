package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/aerovoice/aerovoice/internal/keywords"
	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
)

// Oracle input is capped so long transcripts don't blow the token budget;
// airlines are almost always named early.
const detectionWindow = 2000

// Tier base scores for oracle-reported relevance, multiplied by the
// oracle-reported confidence.
var tierBaseScore = map[model.RelevanceTier]float64{
	model.RelevanceHigh:   0.8,
	model.RelevanceMedium: 0.5,
	model.RelevanceLow:    0.3,
}

var airlinesArrayPattern = regexp.MustCompile(`(?s)"airlines"\s*:\s*(\[.*?\])`)

// AIDetector detects airline mentions via the language-model oracle. It may
// find airlines absent from the keyword table. It never returns an error:
// every failure degrades to an empty list and the reconciler falls back to
// keyword-only results.
type AIDetector struct {
	oracle llm.Oracle
}

// NewAIDetector creates a detector over the given oracle (nil disables it)
func NewAIDetector(oracle llm.Oracle) *AIDetector {
	return &AIDetector{oracle: oracle}
}

type aiAirline struct {
	Airline    string  `json:"airline"`
	Relevance  string  `json:"relevance"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type aiDetection struct {
	Airlines []aiAirline `json:"airlines"`
}

// Detect asks the oracle which airlines the text discusses
func (d *AIDetector) Detect(ctx context.Context, text string) []model.DetectedEntity {
	if d.oracle == nil || strings.TrimSpace(text) == "" {
		return nil
	}

	window := text
	if len(window) > detectionWindow {
		window = window[:detectionWindow]
	}

	prompt := fmt.Sprintf(`Identify every airline discussed in this text. You may name airlines that are not major carriers.

Text: %q

Return a JSON object exactly like:
{"airlines": [{"airline": "name", "relevance": "High|Medium|Low", "confidence": 0.0-1.0, "reason": "brief reason"}]}`, window)

	completion, err := d.oracle.Complete(ctx, llm.CompletionRequest{
		System:     "You are an aviation industry analyst. Identify airlines mentioned in text. Return only valid JSON.",
		Prompt:     prompt,
		JSONObject: true,
	})
	if err != nil {
		log.Printf("AI airline detection failed: %v", err)
		return d.fallbackDetect(ctx, window)
	}

	airlines, ok := parseDetection(completion)
	if !ok {
		log.Printf("AI airline detection returned unparseable output, trying plain-text fallback")
		return d.fallbackDetect(ctx, window)
	}

	return d.toEntities(text, airlines, model.MethodAI)
}

// parseDetection tries strict JSON first, then salvages the airlines array
// out of a malformed completion.
func parseDetection(completion string) ([]aiAirline, bool) {
	var parsed aiDetection
	if err := json.Unmarshal([]byte(completion), &parsed); err == nil {
		return parsed.Airlines, true
	}

	match := airlinesArrayPattern.FindStringSubmatch(completion)
	if match == nil {
		return nil, false
	}
	var airlines []aiAirline
	if err := json.Unmarshal([]byte(match[1]), &airlines); err != nil {
		return nil, false
	}
	return airlines, true
}

// fallbackDetect is the second oracle call: one plain-text airline name per
// line. Total failure yields an empty list, never an error.
func (d *AIDetector) fallbackDetect(ctx context.Context, window string) []model.DetectedEntity {
	completion, err := d.oracle.Complete(ctx, llm.CompletionRequest{
		System:    "Extract airline names from text. Return only airline names, one per line.",
		Prompt:    fmt.Sprintf("List the airlines mentioned in this text, one name per line:\n\n%s", window),
		MaxTokens: 200,
	})
	if err != nil {
		log.Printf("fallback airline detection failed: %v", err)
		return nil
	}

	var airlines []aiAirline
	for _, line := range strings.Split(completion, "\n") {
		name := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789. "))
		if name == "" {
			continue
		}
		airlines = append(airlines, aiAirline{Airline: name, Relevance: "Medium", Confidence: 0.5})
		if len(airlines) >= 5 {
			break
		}
	}

	return d.toEntities(window, airlines, model.MethodAIFallback)
}

// toEntities normalizes oracle-reported airlines into detected entities
func (d *AIDetector) toEntities(text string, airlines []aiAirline, method model.DetectionMethod) []model.DetectedEntity {
	textLower := strings.ToLower(text)
	var entities []model.DetectedEntity

	for _, a := range airlines {
		name := NormalizeName(a.Airline)
		if name == "" {
			continue
		}

		tier := parseTier(a.Relevance)
		confidence := clamp01(a.Confidence)
		score := tierBaseScore[tier] * confidence

		nameLower := strings.ToLower(name)
		mentions := strings.Count(textLower, nameLower)
		firstPos := strings.Index(textLower, nameLower)
		if firstPos < 0 {
			firstPos = 0
		}
		if mentions == 0 {
			mentions = 1
		}

		entities = append(entities, model.DetectedEntity{
			Airline:         name,
			Relevance:       tier,
			Score:           score,
			Matches:         1,
			MentionCount:    mentions,
			FirstMentionPos: firstPos,
			Method:          method,
			Reason:          a.Reason,
		})
	}

	keywords.SortEntities(entities)
	if len(entities) > 5 {
		entities = entities[:5]
	}
	return entities
}

// NormalizeName resolves an oracle-reported airline name to its canonical
// form, or title-cases names absent from the keyword table.
func NormalizeName(name string) string {
	if canonical, ok := keywords.Canonicalize(name); ok {
		return canonical
	}
	return keywords.TitleCase(name)
}

func parseTier(s string) model.RelevanceTier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return model.RelevanceHigh
	case "low":
		return model.RelevanceLow
	default:
		return model.RelevanceMedium
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
