package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
)

// mockOracle returns scripted completions in order
type mockOracle struct {
	completions []string
	errs        []error
	calls       int
	prompts     []llm.CompletionRequest
}

func (m *mockOracle) Name() string { return "mock" }

func (m *mockOracle) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	m.prompts = append(m.prompts, req)
	i := m.calls
	m.calls++
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(m.completions) {
		return m.completions[i], nil
	}
	return "", errors.New("no scripted completion")
}

func (m *mockOracle) Embed(ctx context.Context, text string) []float32 {
	return llm.ZeroVector()
}

func (m *mockOracle) IsAvailable(ctx context.Context) bool { return true }

func TestDetect_StrictJSON(t *testing.T) {
	oracle := &mockOracle{completions: []string{
		`{"airlines": [{"airline": "indigo", "relevance": "High", "confidence": 0.9, "reason": "hiring discussion"}]}`,
	}}
	d := NewAIDetector(oracle)

	entities := d.Detect(context.Background(), "Indigo is hiring 500 pilots")
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}

	e := entities[0]
	if e.Airline != "Indigo" {
		t.Errorf("expected canonical name Indigo, got %s", e.Airline)
	}
	if e.Method != model.MethodAI {
		t.Errorf("expected ai method, got %s", e.Method)
	}
	if e.Relevance != model.RelevanceHigh {
		t.Errorf("expected High relevance, got %s", e.Relevance)
	}
	// High tier base 0.8 times confidence 0.9
	if e.Score < 0.719 || e.Score > 0.721 {
		t.Errorf("expected score 0.72, got %f", e.Score)
	}
	if e.Reason != "hiring discussion" {
		t.Errorf("expected reason carried through, got %q", e.Reason)
	}
}

func TestDetect_SalvagesMalformedJSON(t *testing.T) {
	// Valid airlines array buried in prose
	oracle := &mockOracle{completions: []string{
		`Here is my analysis: {"airlines": [{"airline": "Emirates", "relevance": "Medium", "confidence": 0.8}]} hope that helps!`,
	}}
	d := NewAIDetector(oracle)

	entities := d.Detect(context.Background(), "Emirates announced new routes")
	if len(entities) != 1 {
		t.Fatalf("expected 1 salvaged entity, got %d", len(entities))
	}
	if entities[0].Airline != "Emirates" {
		t.Errorf("expected Emirates, got %s", entities[0].Airline)
	}
	if entities[0].Method != model.MethodAI {
		t.Errorf("salvaged detection keeps the ai method, got %s", entities[0].Method)
	}
}

func TestDetect_PlainTextFallback(t *testing.T) {
	// First completion is unsalvageable, second is the one-per-line fallback
	oracle := &mockOracle{completions: []string{
		`I found some airlines but can't format JSON`,
		"- Indigo\n- SpiceJet\n",
	}}
	d := NewAIDetector(oracle)

	entities := d.Detect(context.Background(), "Indigo and SpiceJet compete on domestic routes")
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities from fallback, got %d", len(entities))
	}
	for _, e := range entities {
		if e.Method != model.MethodAIFallback {
			t.Errorf("expected ai_fallback method, got %s", e.Method)
		}
		if e.Relevance != model.RelevanceMedium {
			t.Errorf("fallback entities default to Medium, got %s", e.Relevance)
		}
	}
	if oracle.calls != 2 {
		t.Errorf("expected 2 oracle calls, got %d", oracle.calls)
	}
}

func TestDetect_TotalFailureReturnsEmpty(t *testing.T) {
	oracle := &mockOracle{errs: []error{
		errors.New("api down"),
		errors.New("api still down"),
	}}
	d := NewAIDetector(oracle)

	entities := d.Detect(context.Background(), "Indigo is hiring")
	if len(entities) != 0 {
		t.Errorf("expected empty result on total oracle failure, got %v", entities)
	}
}

func TestDetect_NilOracle(t *testing.T) {
	d := NewAIDetector(nil)
	if entities := d.Detect(context.Background(), "Indigo is hiring"); entities != nil {
		t.Errorf("expected nil for nil oracle, got %v", entities)
	}
}

func TestDetect_UnknownAirlineTitleCased(t *testing.T) {
	oracle := &mockOracle{completions: []string{
		`{"airlines": [{"airline": "wizz air", "relevance": "Low", "confidence": 1.0}]}`,
	}}
	d := NewAIDetector(oracle)

	entities := d.Detect(context.Background(), "wizz air opened a new base")
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	if entities[0].Airline != "Wizz Air" {
		t.Errorf("expected title-cased unknown airline, got %s", entities[0].Airline)
	}
}

func TestDetect_CapsAtFive(t *testing.T) {
	oracle := &mockOracle{completions: []string{
		`{"airlines": [
			{"airline": "Indigo", "relevance": "High", "confidence": 0.9},
			{"airline": "SpiceJet", "relevance": "High", "confidence": 0.8},
			{"airline": "Emirates", "relevance": "Medium", "confidence": 0.8},
			{"airline": "Vistara", "relevance": "Medium", "confidence": 0.7},
			{"airline": "Lufthansa", "relevance": "Low", "confidence": 0.6},
			{"airline": "Etihad", "relevance": "Low", "confidence": 0.5},
			{"airline": "Qatar Airways", "relevance": "Low", "confidence": 0.4}
		]}`,
	}}
	d := NewAIDetector(oracle)

	entities := d.Detect(context.Background(), "many airlines mentioned")
	if len(entities) != 5 {
		t.Errorf("expected cap of 5 entities, got %d", len(entities))
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("indigo"); got != "Indigo" {
		t.Errorf("expected Indigo, got %s", got)
	}
	if got := NormalizeName("ryanair"); got != "Ryanair" {
		t.Errorf("expected Ryanair, got %s", got)
	}
}
