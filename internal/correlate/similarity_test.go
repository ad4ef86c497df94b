package correlate

import (
	"math"
	"testing"
)

func TestCosine_Identical(t *testing.T) {
	v := []float32{0.5, 0.3, 0.2}
	if got := Cosine(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical vectors should be 1.0, got %f", got)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := Cosine(a, b); got != 0 {
		t.Errorf("orthogonal vectors should be 0, got %f", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	a := []float32{1, 1}
	b := []float32{-1, -1}
	if got := Cosine(a, b); math.Abs(got+1.0) > 1e-9 {
		t.Errorf("opposite vectors should be -1, got %f", got)
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	a := []float32{1, 2, 3}
	zero := []float32{0, 0, 0}
	if got := Cosine(a, zero); got != 0 {
		t.Errorf("zero vector must yield 0, not NaN: got %f", got)
	}
	if got := Cosine(zero, zero); got != 0 {
		t.Errorf("two zero vectors must yield 0, got %f", got)
	}
}

func TestCosine_MismatchedLengths(t *testing.T) {
	if got := Cosine([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Errorf("mismatched lengths must yield 0, got %f", got)
	}
	if got := Cosine(nil, nil); got != 0 {
		t.Errorf("empty vectors must yield 0, got %f", got)
	}
}
