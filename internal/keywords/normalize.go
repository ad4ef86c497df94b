package keywords

import (
	"sort"
	"strings"
)

// airlineNames is the sorted list of canonical names, so resolution order is
// stable regardless of map iteration order.
var airlineNames = func() []string {
	names := make([]string, 0, len(AirlineKeywords))
	for name := range AirlineKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// AirlineNames returns the canonical airline names in sorted order
func AirlineNames() []string {
	return airlineNames
}

// Canonicalize resolves a free-form airline name against the known table.
// Resolution order: exact case-insensitive name match, then substring match
// in either direction against names, then keyword-table lookup. Returns the
// canonical name and whether it was recognized; callers decide what to do
// with unknown names (the AI detector title-cases them).
func Canonicalize(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)

	for _, known := range airlineNames {
		if strings.ToLower(known) == lower {
			return known, true
		}
	}

	for _, known := range airlineNames {
		knownLower := strings.ToLower(known)
		if strings.Contains(lower, knownLower) || strings.Contains(knownLower, lower) {
			return known, true
		}
	}

	for _, known := range airlineNames {
		for _, kw := range AirlineKeywords[known] {
			if strings.ToLower(kw) == lower {
				return known, true
			}
		}
	}

	return "", false
}

// TitleCase capitalizes each space-separated word
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
