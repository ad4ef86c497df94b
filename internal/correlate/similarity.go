// Package correlate checks transcript content against news articles, both by
// verifying individual claims and by plain embedding similarity.
package correlate

import "math"

// Cosine returns the cosine similarity of two vectors. Zero vectors and
// mismatched lengths yield 0 rather than NaN.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
