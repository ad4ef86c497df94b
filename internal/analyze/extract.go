package analyze

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aerovoice/aerovoice/internal/keywords"
	"github.com/aerovoice/aerovoice/internal/model"
)

const (
	maxSummaryLen = 800
	minSummaryLen = 20
	maxKeywords   = 12
	maxSignals    = 5
	maxPredicts   = 5
)

var (
	markdownHeaderPattern = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	intelSummaryPattern   = regexp.MustCompile(`(?im)^intelligence\s+summary\s*:?\s*`)
	boldPattern           = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern         = regexp.MustCompile(`\*([^*]+)\*`)
	codeFencePattern      = regexp.MustCompile("(?i)```[a-z]*\n?")
	jsonSummaryPattern    = regexp.MustCompile(`(?is)["']summary["']\s*:\s*["']([^"']+)["']`)
	jsonWrapperPattern    = regexp.MustCompile(`(?i)\{[^}]*"summary"[^}]*:\s*"?`)
	summarySection        = regexp.MustCompile(`(?is)SUMMARY:\s*(.+?)(?:\n(?:MARKET SIGNALS|KEYWORDS)|$)`)
	summaryLabelPattern   = regexp.MustCompile(`(?is)(?:summary|intelligence summary)[:\-]\s*(.+?)(?:\n\n|\n(?:MARKET SIGNALS|KEYWORDS|[A-Z][a-z]+:)|$)`)
	leadingLabelPattern   = regexp.MustCompile(`(?i)^(summary|intelligence summary)[:\-]\s*`)
	specialCharsPattern   = regexp.MustCompile(`[#*` + "`" + `\[\](){}]`)
	whitespacePattern     = regexp.MustCompile(`\s+`)
	sentenceSplitPattern  = regexp.MustCompile(`[.!?]+\s+`)

	keywordsSection = regexp.MustCompile(`(?im)KEYWORDS:\s*([^\n]+(?:\n[^\n]+)*)`)

	signalsSection    = regexp.MustCompile(`(?is)MARKET SIGNALS:?\s*\n(.*?)(?:\n(?:KEYWORDS|SUMMARY)|$)`)
	signalLinePattern = regexp.MustCompile(`(?i)[-•]\s*(.+?)\s*\|\s*Strength:\s*(Strong|Moderate|Weak)\s*\|\s*Trend:\s*(up|down|stable)`)
	looseSignal       = regexp.MustCompile(`(?i)([^:\n]+?):\s*(Strong|Moderate|Weak)\s*(?:\(?(up|down|stable)\)?)?`)

	sentimentPattern = regexp.MustCompile(`(?i)sentiment[:\-]\s*(positive|negative|neutral)`)
	scorePattern     = regexp.MustCompile(`(?i)score[:\-]\s*([0-9.]+)`)

	predictionPattern = regexp.MustCompile(`([^:\n]+)[:\-]\s*(\d+)%`)
)

// ExtractSummary cleans the completion down to plain prose: markdown and JSON
// wrappers stripped, the SUMMARY section isolated, at most five sentences,
// bounded at 800 characters. Falls back to a transcript-derived summary when
// the result is shorter than 20 characters. Idempotent on already-clean text.
func ExtractSummary(completion, transcript string) string {
	if strings.TrimSpace(completion) == "" {
		return FallbackSummary(transcript)
	}

	text := strings.TrimSpace(completion)
	text = markdownHeaderPattern.ReplaceAllString(text, "")
	text = intelSummaryPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = codeFencePattern.ReplaceAllString(text, "")

	if m := jsonSummaryPattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	text = jsonWrapperPattern.ReplaceAllString(text, "")
	text = strings.Trim(text, `"'`)

	if m := summarySection.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	} else if m := summaryLabelPattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	text = leadingLabelPattern.ReplaceAllString(text, "")

	var sentences []string
	for _, s := range sentenceSplitPattern.Split(text, -1) {
		if s = strings.TrimSpace(s); len(s) > 10 {
			sentences = append(sentences, s)
		}
	}

	var summary string
	if len(sentences) > 0 {
		if len(sentences) > 5 {
			sentences = sentences[:5]
		}
		summary = strings.Join(sentences, ". ")
		if !strings.HasSuffix(summary, ".") && !strings.HasSuffix(summary, "!") && !strings.HasSuffix(summary, "?") {
			summary += "."
		}
	} else {
		summary = text
	}

	summary = specialCharsPattern.ReplaceAllString(summary, "")
	summary = strings.TrimSpace(whitespacePattern.ReplaceAllString(summary, " "))

	if len(summary) > maxSummaryLen {
		cut := strings.LastIndex(summary[:maxSummaryLen-3], ".")
		if cut > 200 {
			summary = summary[:cut+1]
		} else {
			summary = summary[:maxSummaryLen-3] + "..."
		}
	}

	if len(summary) < minSummaryLen {
		return FallbackSummary(transcript)
	}
	return summary
}

// FallbackSummary builds a short summary straight from the transcript when no
// usable completion exists
func FallbackSummary(transcript string) string {
	lower := strings.ToLower(transcript)

	var theme string
	switch {
	case strings.Contains(lower, "hiring") || strings.Contains(lower, "recruitment"):
		theme = "hiring"
	case strings.Contains(lower, "layoff") || strings.Contains(lower, "firing") || strings.Contains(lower, "termination"):
		theme = "firing"
	case strings.Contains(lower, "aircraft") || strings.Contains(lower, "fleet") || strings.Contains(lower, "planes"):
		theme = "fleet expansion"
	}

	var airline string
	switch {
	case strings.Contains(lower, "indigo"):
		airline = "Indigo"
	case strings.Contains(lower, "air india"):
		airline = "Air India"
	case strings.Contains(lower, "spicejet"):
		airline = "SpiceJet"
	}

	var summary string
	switch {
	case airline != "" && theme != "":
		summary = airline + " is involved in " + theme + ". " + truncate(transcript, 150)
	case airline != "":
		summary = airline + ". " + truncate(transcript, 150)
	default:
		summary = truncate(transcript, 200)
	}

	if len(summary) > 250 {
		summary = summary[:247] + "..."
	}
	return summary
}

// aircraftTypes and aviationTerms feed keyword extraction when the completion
// carries no KEYWORDS section
var aircraftTypes = []string{"a320", "a350", "a380", "787", "boeing", "airbus", "wide-body", "narrow-body"}

var aviationTerms = []string{
	"hiring", "recruitment", "pilot", "crew", "fleet", "expansion",
	"aircraft", "salary", "revision", "rest period", "fatigue",
	"union", "protest", "resignation", "safety", "talent drain",
	"competitive", "market", "wide-body", "tax-free", "roster",
	"contract", "reconstructing", "firing", "indirect firing",
}

var keyPhrases = []string{
	"pilot demand", "fleet expansion", "salary revision", "rest period",
	"talent drain", "pilot union", "safety risk", "market competition",
	"wide-body pilot", "tax-free salary", "better roster",
}

// ExtractKeywords pulls the KEYWORDS section from the completion, or mines
// the transcript vocabulary when the section is missing. At most 12 keywords,
// case-insensitively deduplicated, order preserved.
func ExtractKeywords(completion, transcript string) []string {
	if m := keywordsSection.FindStringSubmatch(completion); m != nil {
		var kws []string
		for _, k := range strings.Split(m[1], ",") {
			k = strings.TrimSpace(strings.SplitN(k, "\n", 2)[0])
			if k != "" {
				kws = append(kws, k)
			}
		}
		if len(kws) > 0 {
			return dedupeKeywords(kws)
		}
	}

	lower := strings.ToLower(transcript)
	var kws []string

	for _, airline := range keywords.AirlineNames() {
		for _, kw := range keywords.AirlineKeywords[airline] {
			if strings.Contains(lower, kw) {
				kws = append(kws, airline)
				break
			}
		}
	}

	for _, aircraft := range aircraftTypes {
		if strings.Contains(lower, aircraft) {
			if len(aircraft) > 3 {
				kws = append(kws, keywords.TitleCase(aircraft))
			} else {
				kws = append(kws, strings.ToUpper(aircraft))
			}
		}
	}

	for _, term := range aviationTerms {
		if strings.Contains(lower, term) {
			kws = append(kws, keywords.TitleCase(term))
		}
	}
	for _, phrase := range keyPhrases {
		if strings.Contains(lower, phrase) {
			kws = append(kws, keywords.TitleCase(phrase))
		}
	}

	return dedupeKeywords(kws)
}

func dedupeKeywords(kws []string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, kw := range kws {
		lower := strings.ToLower(kw)
		if !seen[lower] {
			seen[lower] = true
			unique = append(unique, kw)
		}
	}
	if len(unique) > maxKeywords {
		unique = unique[:maxKeywords]
	}
	return unique
}

// ExtractMarketSignals parses the MARKET SIGNALS section. Three tiers: the
// exact pipe format first, then loose "label: Strength (trend)" lines, then
// inference from the completion's vocabulary. Always returns at least one
// signal.
func ExtractMarketSignals(completion string) []model.MarketSignal {
	var signals []model.MarketSignal

	if m := signalsSection.FindStringSubmatch(completion); m != nil {
		for _, line := range signalLinePattern.FindAllStringSubmatch(m[1], -1) {
			signals = append(signals, model.MarketSignal{
				Signal:   strings.TrimSpace(line[1]),
				Strength: normalizeStrength(line[2]),
				Trend:    normalizeTrend(line[3]),
			})
		}
	}

	if len(signals) == 0 {
		for _, m := range looseSignal.FindAllStringSubmatch(completion, -1) {
			if len(signals) >= maxSignals {
				break
			}
			label := strings.TrimSpace(m[1])
			labelLower := strings.ToLower(label)
			if strings.Contains(labelLower, "strength") || strings.Contains(labelLower, "trend") ||
				strings.Contains(labelLower, "signal") || strings.Contains(labelLower, "market") {
				continue
			}
			signals = append(signals, model.MarketSignal{
				Signal:   label,
				Strength: normalizeStrength(m[2]),
				Trend:    normalizeTrend(m[3]),
			})
		}
	}

	if len(signals) == 0 {
		signals = inferSignals(completion)
	}

	if len(signals) == 0 {
		signals = []model.MarketSignal{{
			Signal:   "Market activity detected",
			Strength: model.StrengthModerate,
			Trend:    model.TrendStable,
		}}
	}

	if len(signals) > maxSignals {
		signals = signals[:maxSignals]
	}
	return signals
}

func inferSignals(completion string) []model.MarketSignal {
	lower := strings.ToLower(completion)
	var signals []model.MarketSignal

	anyOf := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	if anyOf("hiring", "recruitment", "pilot demand", "crew demand") {
		strength := model.StrengthModerate
		if anyOf("significant", "major", "massive", "surge") {
			strength = model.StrengthStrong
		}
		signals = append(signals, model.MarketSignal{
			Signal: "Increased pilot demand indicators", Strength: strength, Trend: model.TrendUp,
		})
	}
	if anyOf("fleet", "aircraft", "expansion", "delivery", "order") {
		strength := model.StrengthModerate
		if anyOf("major", "significant", "large") {
			strength = model.StrengthStrong
		}
		signals = append(signals, model.MarketSignal{
			Signal: "Fleet expansion announcements expected", Strength: strength, Trend: model.TrendUp,
		})
	}
	if anyOf("training", "simulator", "capacity", "constraint") {
		signals = append(signals, model.MarketSignal{
			Signal: "Training capacity constraints", Strength: model.StrengthModerate, Trend: model.TrendStable,
		})
	}
	if anyOf("financial", "revenue", "profit", "loss", "earnings") {
		strength := model.StrengthModerate
		trend := model.TrendDown
		if anyOf("strong", "positive", "growth") {
			strength = model.StrengthStrong
		}
		if anyOf("positive", "growth", "increase") {
			trend = model.TrendUp
		}
		signals = append(signals, model.MarketSignal{
			Signal: "Financial performance indicators", Strength: strength, Trend: trend,
		})
	}
	return signals
}

func normalizeStrength(s string) model.SignalStrength {
	switch strings.ToLower(s) {
	case "strong":
		return model.StrengthStrong
	case "weak":
		return model.StrengthWeak
	default:
		return model.StrengthModerate
	}
}

func normalizeTrend(s string) model.SignalTrend {
	switch strings.ToLower(s) {
	case "up":
		return model.TrendUp
	case "down":
		return model.TrendDown
	default:
		return model.TrendStable
	}
}

// ExtractSentiment reads an optional sentiment label and score from the
// completion; neutral 0.5 when absent. The breakdown is a heuristic derived
// from the label.
func ExtractSentiment(completion string) model.Sentiment {
	label := model.SentimentNeutral
	if m := sentimentPattern.FindStringSubmatch(completion); m != nil {
		switch strings.ToLower(m[1]) {
		case "positive":
			label = model.SentimentPositive
		case "negative":
			label = model.SentimentNegative
		}
	}

	score := 0.5
	if m := scorePattern.FindStringSubmatch(completion); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score = min(1.0, max(0.0, v))
		}
	}

	breakdown := model.SentimentBreakdown{Positive: 20, Neutral: 30, Negative: 20}
	if label == model.SentimentPositive {
		breakdown.Positive = int(score * 100)
	}
	if label == model.SentimentNegative {
		breakdown.Negative = int((1 - score) * 100)
	}

	return model.Sentiment{Overall: label, Score: score, Breakdown: breakdown}
}

// ExtractPredictions collects "event: NN%" statements, at most five
func ExtractPredictions(completion string) []model.Prediction {
	var predictions []model.Prediction
	for _, m := range predictionPattern.FindAllStringSubmatch(completion, -1) {
		if len(predictions) >= maxPredicts {
			break
		}
		prob, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		predictions = append(predictions, model.Prediction{
			Event:       strings.TrimSpace(m[1]),
			Probability: prob,
		})
	}
	return predictions
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
