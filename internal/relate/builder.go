// Package relate derives airline-theme relationships from co-occurrence.
package relate

import (
	"regexp"
	"strings"

	"github.com/aerovoice/aerovoice/internal/keywords"
	"github.com/aerovoice/aerovoice/internal/model"
)

// Proximity fallback window, in characters either side of the airline's
// first mention.
const proximityWindow = 200

var sentencePattern = regexp.MustCompile(`[.!?]+\s+`)

// Builder maps airlines to themes (one-to-many) and themes back to airlines
// (many-to-one) from the same co-occurrence computation, so the two maps are
// always exact inverses.
type Builder struct{}

// NewBuilder creates a relationship builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build computes both maps. An airline with no co-occurring theme keeps an
// empty list; themes with no airlines are dropped from the inverse map.
func (b *Builder) Build(text string, airlines []model.DetectedEntity, themes []string) (map[string][]string, map[string][]string) {
	airlineThemes := make(map[string][]string, len(airlines))
	textLower := strings.ToLower(text)
	sentences := SplitSentences(text)

	for _, airline := range airlines {
		terms := airlineTerms(airline.Airline)

		var associated []string
		for _, sentence := range sentences {
			sentenceLower := strings.ToLower(sentence)
			if !containsAny(sentenceLower, terms) {
				continue
			}
			for _, theme := range themes {
				if themeMentioned(sentenceLower, theme) && !containsString(associated, theme) {
					associated = append(associated, theme)
				}
			}
		}

		// Proximity fallback only when sentence-level found nothing
		if len(associated) == 0 {
			if window, ok := proximityContext(textLower, terms); ok {
				for _, theme := range themes {
					if themeMentioned(window, theme) && !containsString(associated, theme) {
						associated = append(associated, theme)
					}
				}
			}
		}

		if associated == nil {
			associated = []string{}
		}
		airlineThemes[airline.Airline] = associated
	}

	order := make([]string, 0, len(airlines))
	for _, a := range airlines {
		order = append(order, a.Airline)
	}
	themeAirlines := invert(airlineThemes, order, themes)
	return airlineThemes, themeAirlines
}

// invert builds the theme-to-airlines map from the airline-to-themes map,
// preserving the airlines' detection order and dropping themes with no
// airlines.
func invert(airlineThemes map[string][]string, order, themes []string) map[string][]string {
	inverse := make(map[string][]string)
	for _, theme := range themes {
		var associated []string
		for _, airline := range order {
			if containsString(airlineThemes[airline], theme) {
				associated = append(associated, airline)
			}
		}
		if len(associated) > 0 {
			inverse[theme] = associated
		}
	}
	return inverse
}

// SplitSentences splits text on sentence terminators followed by whitespace
func SplitSentences(text string) []string {
	parts := sentencePattern.Split(text, -1)
	var sentences []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// airlineTerms returns the lowercase search terms for an airline: its
// canonical name plus all table keywords.
func airlineTerms(airline string) []string {
	terms := []string{strings.ToLower(airline)}
	for _, kw := range keywords.AirlineKeywords[airline] {
		terms = append(terms, strings.ToLower(kw))
	}
	return terms
}

// proximityContext locates the airline's first mention and returns the
// surrounding window
func proximityContext(textLower string, terms []string) (string, bool) {
	minPos := -1
	for _, term := range terms {
		if pos := strings.Index(textLower, term); pos != -1 && (minPos == -1 || pos < minPos) {
			minPos = pos
		}
	}
	if minPos == -1 {
		return "", false
	}

	start := minPos - proximityWindow
	if start < 0 {
		start = 0
	}
	end := minPos + proximityWindow
	if end > len(textLower) {
		end = len(textLower)
	}
	return textLower[start:end], true
}

func themeMentioned(textLower, theme string) bool {
	for _, kw := range keywords.ThemeKeywords[theme] {
		if strings.Contains(textLower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
