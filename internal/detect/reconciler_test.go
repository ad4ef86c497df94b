package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/aerovoice/aerovoice/internal/model"
)

func entity(airline string, score float64, mentions int) model.DetectedEntity {
	return model.DetectedEntity{
		Airline:      airline,
		Score:        score,
		MentionCount: mentions,
		Method:       model.MethodAI,
	}
}

func TestMerge_KeywordOnlyWhenNoAI(t *testing.T) {
	r := NewReconciler(nil, model.DetectionConfig{})

	keyword := []model.DetectedEntity{entity("Indigo", 0.5, 2)}
	merged := r.Merge(nil, keyword)

	if len(merged) != 1 || merged[0].Airline != "Indigo" {
		t.Fatalf("expected keyword list verbatim, got %v", merged)
	}
}

func TestMerge_AIBaseWithKeywordAdditions(t *testing.T) {
	r := NewReconciler(nil, model.DetectionConfig{})

	ai := []model.DetectedEntity{entity("Indigo", 0.72, 3)}
	keyword := []model.DetectedEntity{
		{Airline: "indigo", Score: 0.5, MentionCount: 2, Method: model.MethodKeyword}, // duplicate, case differs
		{Airline: "SpiceJet", Score: 0.3, MentionCount: 1, Method: model.MethodKeyword},
	}

	merged := r.Merge(ai, keyword)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged entities, got %d: %v", len(merged), merged)
	}
	if merged[0].Airline != "Indigo" || merged[0].Method != model.MethodAI {
		t.Errorf("AI result should win the duplicate: %+v", merged[0])
	}
	if merged[1].Airline != "SpiceJet" || merged[1].Method != model.MethodKeyword {
		t.Errorf("keyword-only airline should be appended: %+v", merged[1])
	}
}

func TestMerge_CapsAtFive(t *testing.T) {
	r := NewReconciler(nil, model.DetectionConfig{})

	ai := []model.DetectedEntity{
		entity("Indigo", 0.9, 5), entity("SpiceJet", 0.8, 4), entity("Emirates", 0.7, 3),
	}
	keyword := []model.DetectedEntity{
		entity("Vistara", 0.6, 2), entity("Lufthansa", 0.5, 2), entity("Etihad", 0.4, 1),
	}

	merged := r.Merge(ai, keyword)
	if len(merged) != 5 {
		t.Errorf("expected cap of 5, got %d", len(merged))
	}
}

func TestPrimary_Empty(t *testing.T) {
	r := NewReconciler(nil, model.DetectionConfig{})
	if p := r.Primary(context.Background(), "text", nil); p != nil {
		t.Errorf("expected nil primary for no entities, got %v", p)
	}
}

func TestPrimary_Single(t *testing.T) {
	r := NewReconciler(nil, model.DetectionConfig{})
	entities := []model.DetectedEntity{entity("Indigo", 0.1, 1)}

	p := r.Primary(context.Background(), "text", entities)
	if p == nil || p.Airline != "Indigo" {
		t.Fatalf("lone entity must be primary, got %v", p)
	}
}

func TestPrimary_ScoreDominance(t *testing.T) {
	// No oracle: if dominance did not decide, arbitration would pick the top
	// anyway, so use an oracle that fails the test when called
	oracle := &mockOracle{errs: []error{errors.New("should not be called")}}
	r := NewReconciler(oracle, model.DetectionConfig{})

	entities := []model.DetectedEntity{entity("Indigo", 0.9, 1), entity("SpiceJet", 0.3, 1)}
	p := r.Primary(context.Background(), "text", entities)
	if p == nil || p.Airline != "Indigo" {
		t.Fatalf("expected score-dominant Indigo, got %v", p)
	}
	if oracle.calls != 0 {
		t.Errorf("dominant score must not consult the oracle, got %d calls", oracle.calls)
	}
}

func TestPrimary_MentionDominance(t *testing.T) {
	oracle := &mockOracle{}
	r := NewReconciler(oracle, model.DetectionConfig{})

	// Scores too close for dominance (0.5 vs 0.45), mentions decide (6 vs 4)
	entities := []model.DetectedEntity{entity("Indigo", 0.5, 6), entity("SpiceJet", 0.45, 4)}
	p := r.Primary(context.Background(), "text", entities)
	if p == nil || p.Airline != "Indigo" {
		t.Fatalf("expected mention-dominant Indigo, got %v", p)
	}
	if oracle.calls != 0 {
		t.Errorf("dominant mentions must not consult the oracle, got %d calls", oracle.calls)
	}
}

func TestPrimary_Arbitration(t *testing.T) {
	oracle := &mockOracle{completions: []string{"SpiceJet"}}
	r := NewReconciler(oracle, model.DetectionConfig{})

	// Close on both axes: 0.5 vs 0.45 score, 3 vs 3 mentions
	entities := []model.DetectedEntity{entity("Indigo", 0.5, 3), entity("SpiceJet", 0.45, 3)}
	p := r.Primary(context.Background(), "both airlines matter", entities)
	if p == nil || p.Airline != "SpiceJet" {
		t.Fatalf("expected oracle-arbitrated SpiceJet, got %v", p)
	}
	if oracle.calls != 1 {
		t.Errorf("expected 1 arbitration call, got %d", oracle.calls)
	}
}

func TestPrimary_ArbitrationFailureFallsBack(t *testing.T) {
	oracle := &mockOracle{errs: []error{errors.New("api down")}}
	r := NewReconciler(oracle, model.DetectionConfig{})

	entities := []model.DetectedEntity{entity("Indigo", 0.5, 3), entity("SpiceJet", 0.45, 3)}
	p := r.Primary(context.Background(), "text", entities)
	if p == nil || p.Airline != "Indigo" {
		t.Fatalf("oracle failure should fall back to top candidate, got %v", p)
	}
}

func TestPrimary_ArbitrationUnknownReplyFallsBack(t *testing.T) {
	oracle := &mockOracle{completions: []string{"Ryanair"}}
	r := NewReconciler(oracle, model.DetectionConfig{})

	entities := []model.DetectedEntity{entity("Indigo", 0.5, 3), entity("SpiceJet", 0.45, 3)}
	p := r.Primary(context.Background(), "text", entities)
	if p == nil || p.Airline != "Indigo" {
		t.Fatalf("unmatched reply should fall back to top candidate, got %v", p)
	}
}

func TestPrimary_ConfiguredRatios(t *testing.T) {
	oracle := &mockOracle{completions: []string{"SpiceJet"}}
	// Stricter score ratio turns a 2x lead into a tie needing arbitration
	r := NewReconciler(oracle, model.DetectionConfig{ScoreDominanceRatio: 3.0, MentionDominanceRatio: 5.0})

	entities := []model.DetectedEntity{entity("Indigo", 0.6, 3), entity("SpiceJet", 0.3, 3)}
	p := r.Primary(context.Background(), "text", entities)
	if p == nil || p.Airline != "SpiceJet" {
		t.Fatalf("expected arbitration under strict ratios, got %v", p)
	}
}
