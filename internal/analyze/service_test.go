package analyze

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
)

// mockOracle replays scripted completions in call order
type mockOracle struct {
	mu          sync.Mutex
	completions []string
	errs        []error
	calls       int
}

func (m *mockOracle) Name() string { return "mock" }

func (m *mockOracle) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
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

const detectionIndigo = `{"airlines": [{"airline": "Indigo", "relevance": "High", "confidence": 0.9, "reason": "hiring drive"}]}`

const analysisCompletion = `SUMMARY: Indigo has launched a major hiring drive for 500 pilots over the next year. The move signals aggressive capacity expansion in the domestic market. Rival carriers are expected to respond with their own recruitment pushes.

MARKET SIGNALS:
- Pilot hiring acceleration at Indigo | Strength: Strong | Trend: up
- Domestic capacity expansion | Strength: Moderate | Trend: up

KEYWORDS: Indigo, pilots, hiring, expansion, capacity, recruitment

Sentiment: Positive (Score: 0.8)`

func TestAnalyze_EmptyTranscript(t *testing.T) {
	s := NewService(model.DefaultConfig(), nil)
	if _, err := s.Analyze(context.Background(), "   \n\t", Options{}); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestAnalyze_KeywordOnlyWithoutOracle(t *testing.T) {
	s := NewService(model.DefaultConfig(), nil)

	record, err := s.Analyze(context.Background(), "Indigo announced a pilot hiring drive for 500 captains.", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID == "" {
		t.Error("record must carry an ID")
	}
	if record.PrimaryAirline != "Indigo" {
		t.Errorf("primary = %q, want Indigo", record.PrimaryAirline)
	}
	if len(record.AllAirlines) != 1 || record.AllAirlines[0] != "Indigo" {
		t.Errorf("allAirlines = %v", record.AllAirlines)
	}
	if record.ConfidenceScore != 0.6 {
		t.Errorf("confidence = %f, want 0.6 without a language model", record.ConfidenceScore)
	}
	if record.Sentiment.Overall != model.SentimentNeutral {
		t.Errorf("sentiment = %q, want Neutral fallback", record.Sentiment.Overall)
	}
	if len(record.MarketSignals) != 1 || record.MarketSignals[0].Signal != "Content detected" {
		t.Errorf("market signals = %+v", record.MarketSignals)
	}
	if len(record.Summary) < 20 {
		t.Errorf("fallback summary too short: %q", record.Summary)
	}
	if len(record.Themes) == 0 || record.Themes[0] != "Hiring" {
		t.Errorf("themes = %v, want Hiring first", record.Themes)
	}
	if record.OriginalTheme != record.Themes[0] {
		t.Errorf("originalTheme = %q, want %q", record.OriginalTheme, record.Themes[0])
	}
	if len(record.AirlineSpecifications) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(record.AirlineSpecifications))
	}
	spec := record.AirlineSpecifications[0]
	if !spec.IsPrimary {
		t.Error("sole airline must be primary")
	}
	if len(spec.Signals) != 1 || spec.Signals[0] != "General" {
		t.Errorf("signals = %v, want [General] without a completion", spec.Signals)
	}
	if record.AirlineThemeMap == nil || record.ThemeAirlineMap == nil {
		t.Error("relationship maps must be present")
	}
	// News verification needs a configured key
	if record.Correlation != nil {
		t.Errorf("correlation = %+v, want nil without a news key", record.Correlation)
	}
}

func TestAnalyze_WithOracle(t *testing.T) {
	oracle := &mockOracle{completions: []string{detectionIndigo, analysisCompletion}}
	s := NewService(model.DefaultConfig(), oracle)

	record, err := s.Analyze(context.Background(), "Indigo is hiring 500 pilots for its expansion.", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.calls != 2 {
		t.Errorf("expected 2 oracle calls (detection, analysis), got %d", oracle.calls)
	}
	if record.ConfidenceScore != 0.85 {
		t.Errorf("confidence = %f, want 0.85", record.ConfidenceScore)
	}
	if !strings.Contains(record.Summary, "hiring drive") {
		t.Errorf("summary lost content: %q", record.Summary)
	}
	if strings.Contains(record.Summary, "SUMMARY") {
		t.Errorf("summary leaked its section label: %q", record.Summary)
	}
	if len(record.MarketSignals) != 2 {
		t.Fatalf("expected 2 market signals, got %d", len(record.MarketSignals))
	}
	if record.MarketSignals[0].Strength != model.StrengthStrong || record.MarketSignals[0].Trend != model.TrendUp {
		t.Errorf("first signal = %+v", record.MarketSignals[0])
	}
	if record.Sentiment.Overall != model.SentimentPositive {
		t.Errorf("sentiment = %q, want Positive", record.Sentiment.Overall)
	}
	if record.PrimaryAirline != "Indigo" {
		t.Errorf("primary = %q, want Indigo", record.PrimaryAirline)
	}

	found := false
	for _, k := range record.Keywords {
		if k == "Indigo" {
			found = true
		}
	}
	if !found {
		t.Errorf("keywords missing Indigo: %v", record.Keywords)
	}

	if len(record.AirlineSpecifications) != 1 {
		t.Fatalf("expected 1 spec, got %d", len(record.AirlineSpecifications))
	}
	spec := record.AirlineSpecifications[0]
	if len(spec.Signals) != 2 || spec.Signals[0] != "Market activity" {
		t.Errorf("signals = %v, want airline-specific signals when the completion names it", spec.Signals)
	}
	if spec.Relevance != model.RelevanceHigh {
		t.Errorf("primary relevance = %q, want High", spec.Relevance)
	}
}

func TestAnalyze_OracleFailureFallsBack(t *testing.T) {
	failure := errors.New("rate limited")
	oracle := &mockOracle{errs: []error{failure, failure, failure}}
	s := NewService(model.DefaultConfig(), oracle)

	record, err := s.Analyze(context.Background(), "Indigo announced a pilot hiring drive for 500 captains.", Options{})
	if err != nil {
		t.Fatalf("oracle failure must not fail the analysis: %v", err)
	}

	if record.ConfidenceScore != 0.6 {
		t.Errorf("confidence = %f, want 0.6 fallback", record.ConfidenceScore)
	}
	if record.Sentiment.Overall != model.SentimentNeutral {
		t.Errorf("sentiment = %q, want Neutral", record.Sentiment.Overall)
	}
	if len(record.MarketSignals) != 1 || record.MarketSignals[0].Signal != "Content detected" {
		t.Errorf("market signals = %+v", record.MarketSignals)
	}
	if len(record.PredictiveProbabilities) != 0 {
		t.Errorf("predictions = %+v, want none", record.PredictiveProbabilities)
	}
	// Keyword detection still works
	if record.PrimaryAirline != "Indigo" {
		t.Errorf("primary = %q, want Indigo from keywords", record.PrimaryAirline)
	}
	if len(record.Themes) == 0 || record.Themes[0] != "Hiring" {
		t.Errorf("themes = %v, want Hiring", record.Themes)
	}
}

func TestAnalyze_DefaultThemeWithoutMatches(t *testing.T) {
	s := NewService(model.DefaultConfig(), nil)

	record, err := s.Analyze(context.Background(), "Indigo repainted several cabins last month.", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Themes) != 1 || record.Themes[0] != "General" {
		t.Errorf("themes = %v, want [General]", record.Themes)
	}
	if record.OriginalTheme != "General" {
		t.Errorf("originalTheme = %q, want General", record.OriginalTheme)
	}
}

func TestAnalyze_RemedialExtraction(t *testing.T) {
	oracle := &mockOracle{completions: []string{
		`{"airlines": []}`,
		analysisCompletion,
		"Indigo\n",
	}}
	s := NewService(model.DefaultConfig(), oracle)

	// No airline keywords in the transcript, so the analysis output is the
	// only source of names.
	record, err := s.Analyze(context.Background(), "The carrier repainted its cabins with a fresh look last week.", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oracle.calls != 3 {
		t.Errorf("expected 3 oracle calls (detection, analysis, extraction), got %d", oracle.calls)
	}
	if len(record.AllAirlines) != 1 || record.AllAirlines[0] != "Indigo" {
		t.Errorf("allAirlines = %v, want [Indigo] from remedial extraction", record.AllAirlines)
	}
	if record.PrimaryAirline != "" {
		t.Errorf("primary = %q, want empty when detection found nothing", record.PrimaryAirline)
	}
	if len(record.AirlineSpecifications) != 1 || record.AirlineSpecifications[0].IsPrimary {
		t.Errorf("specs = %+v", record.AirlineSpecifications)
	}
}

func TestAnalyze_AirlineFilter(t *testing.T) {
	s := NewService(model.DefaultConfig(), nil)

	record, err := s.Analyze(context.Background(),
		"Indigo and SpiceJet are both ramping up pilot hiring this quarter.",
		Options{AirlineFilter: "spicejet"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.AllAirlines) != 1 || record.AllAirlines[0] != "SpiceJet" {
		t.Errorf("allAirlines = %v, want [SpiceJet]", record.AllAirlines)
	}
	if record.PrimaryAirline != "SpiceJet" {
		t.Errorf("primary = %q, want SpiceJet", record.PrimaryAirline)
	}
}

func TestAnalyze_ThemeFilter(t *testing.T) {
	s := NewService(model.DefaultConfig(), nil)

	record, err := s.Analyze(context.Background(),
		"Indigo is hiring pilots while facing intense competition on pricing.",
		Options{ThemeFilter: "hiring"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(record.Themes) != 1 || record.Themes[0] != "Hiring" {
		t.Errorf("themes = %v, want [Hiring]", record.Themes)
	}
}

func TestAnalyzeText_MatchesAnalyze(t *testing.T) {
	s := NewService(model.DefaultConfig(), nil)

	record, err := s.AnalyzeText(context.Background(), "SpiceJet announced job cuts across its workforce.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.PrimaryAirline != "SpiceJet" {
		t.Errorf("primary = %q, want SpiceJet", record.PrimaryAirline)
	}
	if len(record.Themes) == 0 || record.Themes[0] != "Firing" {
		t.Errorf("themes = %v, want Firing first", record.Themes)
	}
}
