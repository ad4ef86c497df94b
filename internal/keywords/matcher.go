package keywords

import (
	"regexp"
	"sort"
	"strings"

	"github.com/aerovoice/aerovoice/internal/model"
)

// Short keywords (airline codes like "6e", theme terms like "ai") must match
// whole words only, otherwise "af" fires inside "staff" and "craft".
const shortCodeLen = 3

// Matcher performs deterministic airline and theme detection against the
// static keyword tables. It is safe for concurrent use and never fails.
type Matcher struct {
	shortCodes map[string]*regexp.Regexp // keyword -> word-boundary pattern
	airlines   []string                  // sorted canonical names, stable iteration
	themes     []string
}

// NewMatcher builds a matcher over the package keyword tables
func NewMatcher() *Matcher {
	m := &Matcher{
		shortCodes: make(map[string]*regexp.Regexp),
	}

	for airline, kws := range AirlineKeywords {
		m.airlines = append(m.airlines, airline)
		for _, kw := range kws {
			if len(kw) <= shortCodeLen {
				m.shortCodes[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}
	sort.Strings(m.airlines)

	for theme, kws := range ThemeKeywords {
		m.themes = append(m.themes, theme)
		for _, kw := range kws {
			if len(kw) <= shortCodeLen {
				m.shortCodes[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
			}
		}
	}
	sort.Strings(m.themes)

	return m
}

// DetectAirlines detects airlines mentioned in text, scored and ranked.
// Returns at most 5 entities, ordered by (score desc, mentions desc,
// first mention asc).
func (m *Matcher) DetectAirlines(text string) []model.DetectedEntity {
	textLower := strings.ToLower(text)
	var detected []model.DetectedEntity

	for _, airline := range m.airlines {
		kws := AirlineKeywords[airline]

		matches := 0
		for _, kw := range kws {
			if m.matchKeyword(textLower, kw) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		score := float64(matches) / float64(len(kws))

		// Verbatim mention of the canonical name is worth extra
		nameLower := strings.ToLower(airline)
		if strings.Contains(textLower, nameLower) {
			score += 0.2
		}

		mentions := strings.Count(textLower, nameLower)
		for _, kw := range kws {
			mentions += strings.Count(textLower, strings.ToLower(kw))
		}

		// Earlier mentions are more important
		firstPos := len(textLower)
		for _, kw := range kws {
			if pos := strings.Index(textLower, strings.ToLower(kw)); pos != -1 && pos < firstPos {
				firstPos = pos
			}
		}
		positionScore := 1.0 - float64(firstPos)/float64(max(len(textLower), 1))
		score += positionScore * 0.1

		detected = append(detected, model.DetectedEntity{
			Airline:         airline,
			Relevance:       model.TierForScore(score),
			Score:           score,
			Matches:         matches,
			MentionCount:    mentions,
			FirstMentionPos: firstPos,
			Method:          model.MethodKeyword,
		})
	}

	SortEntities(detected)
	if len(detected) > 5 {
		detected = detected[:5]
	}
	return detected
}

// DetectThemes detects the top themes mentioned in text, by keyword hit count
func (m *Matcher) DetectThemes(text string) []string {
	textLower := strings.ToLower(text)

	type scored struct {
		theme string
		hits  int
	}
	var found []scored
	for _, theme := range m.themes {
		hits := 0
		for _, kw := range ThemeKeywords[theme] {
			if m.matchKeyword(textLower, kw) {
				hits++
			}
		}
		if hits > 0 {
			found = append(found, scored{theme, hits})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].hits > found[j].hits })

	var themes []string
	for i, s := range found {
		if i >= 3 {
			break
		}
		themes = append(themes, s.theme)
	}
	return themes
}

// matchKeyword applies the two matching modes: word-boundary for short codes,
// plain substring containment for longer keywords.
func (m *Matcher) matchKeyword(textLower, keyword string) bool {
	kw := strings.ToLower(keyword)
	if re, ok := m.shortCodes[kw]; ok {
		return re.MatchString(textLower)
	}
	return strings.Contains(textLower, kw)
}

// SortEntities orders entities by (score desc, mentions desc, first pos asc)
func SortEntities(entities []model.DetectedEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Score != entities[j].Score {
			return entities[i].Score > entities[j].Score
		}
		if entities[i].MentionCount != entities[j].MentionCount {
			return entities[i].MentionCount > entities[j].MentionCount
		}
		return entities[i].FirstMentionPos < entities[j].FirstMentionPos
	})
}
