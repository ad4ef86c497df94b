package detect

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aerovoice/aerovoice/internal/keywords"
	"github.com/aerovoice/aerovoice/internal/llm"
	"github.com/aerovoice/aerovoice/internal/model"
)

// Reconciler merges AI and keyword detection results and selects the primary
// airline. All of its operations degrade instead of failing: oracle
// arbitration falls back to the top-ranked candidate.
type Reconciler struct {
	oracle llm.Oracle
	config model.DetectionConfig
}

// NewReconciler creates a reconciler with the given dominance thresholds
func NewReconciler(oracle llm.Oracle, config model.DetectionConfig) *Reconciler {
	return &Reconciler{oracle: oracle, config: config}
}

// Merge combines AI and keyword detection results into one ranked list.
// AI results form the base when present; keyword-detected airlines not
// already in the list are appended. With no AI results the keyword list is
// used verbatim.
func (r *Reconciler) Merge(ai, keyword []model.DetectedEntity) []model.DetectedEntity {
	if len(ai) == 0 {
		return keyword
	}

	merged := make([]model.DetectedEntity, len(ai))
	copy(merged, ai)

	present := make(map[string]bool, len(ai))
	for _, e := range ai {
		present[strings.ToLower(e.Airline)] = true
	}

	for _, e := range keyword {
		if present[strings.ToLower(e.Airline)] {
			continue
		}
		e.Method = model.MethodKeyword
		merged = append(merged, e)
		present[strings.ToLower(e.Airline)] = true
	}

	keywords.SortEntities(merged)
	if len(merged) > 5 {
		merged = merged[:5]
	}
	return merged
}

// Primary selects the single primary airline. A lone entity is primary
// unconditionally; otherwise dominance by score, then dominance by mentions,
// then oracle arbitration, defaulting to the top-ranked candidate.
func (r *Reconciler) Primary(ctx context.Context, text string, entities []model.DetectedEntity) *model.DetectedEntity {
	if len(entities) == 0 {
		return nil
	}
	if len(entities) == 1 {
		return &entities[0]
	}

	top := entities[0]
	second := entities[1]

	if top.Score > second.Score*r.scoreRatio() {
		return &entities[0]
	}
	if float64(top.MentionCount) >= float64(second.MentionCount)*r.mentionRatio() {
		return &entities[0]
	}

	return r.arbitrate(ctx, text, entities)
}

// arbitrate asks the oracle to pick between close candidates. Never errors;
// no match or oracle failure degrades to the top-ranked candidate.
func (r *Reconciler) arbitrate(ctx context.Context, text string, entities []model.DetectedEntity) *model.DetectedEntity {
	if r.oracle == nil {
		return &entities[0]
	}

	var names []string
	for i, e := range entities {
		if i >= 3 {
			break
		}
		names = append(names, e.Airline)
	}

	prompt := fmt.Sprintf(`Analyze this text and determine which airline is the PRIMARY focus:

%q

Detected airlines: %s

Respond with ONLY the airline name that is the primary subject of this text. If multiple airlines are equally important, respond with the first one mentioned.`, text, strings.Join(names, ", "))

	reply, err := r.oracle.Complete(ctx, llm.CompletionRequest{
		System:    "You are an expert at analyzing text to identify the primary subject. Respond with only the airline name, nothing else.",
		Prompt:    prompt,
		MaxTokens: 50,
	})
	if err != nil {
		log.Printf("primary airline arbitration failed: %v", err)
		return &entities[0]
	}

	replyLower := strings.ToLower(strings.TrimSpace(reply))
	for i := range entities {
		nameLower := strings.ToLower(entities[i].Airline)
		if strings.Contains(replyLower, nameLower) || strings.Contains(nameLower, replyLower) {
			return &entities[i]
		}
	}

	return &entities[0]
}

func (r *Reconciler) scoreRatio() float64 {
	if r.config.ScoreDominanceRatio > 0 {
		return r.config.ScoreDominanceRatio
	}
	return 1.5
}

func (r *Reconciler) mentionRatio() float64 {
	if r.config.MentionDominanceRatio > 0 {
		return r.config.MentionDominanceRatio
	}
	return 1.2
}
