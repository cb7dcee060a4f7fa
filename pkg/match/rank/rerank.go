package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"specialist-match-be/pkg/llm"
	"specialist-match-be/pkg/store"
)

// maxRerankDelta bounds how far the generative pass can move one candidate's
// overall score. The heuristic score is the prior; the model refines within
// this window and can never fully reorder the list on its own authority.
const maxRerankDelta = 10.0

type rerankAdjustment struct {
	SpecialistId string  `json:"specialist_id"`
	Delta        float64 `json:"delta"`
	Reasoning    string  `json:"reasoning,omitempty"`
}

// Reranker applies an optional generative refinement pass over an already
// heuristically ranked list. On any transport or schema failure the input
// order is returned untouched; the heuristic ordering is the guaranteed
// fallback, not a best effort.
type Reranker struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewReranker(llmProvider llm.LLMProvider, logger *log.Logger) *Reranker {
	return &Reranker{llmProvider: llmProvider, logger: logger}
}

// Refine adjusts overall scores by bounded deltas and re-sorts.
func (r *Reranker) Refine(ctx context.Context, ranked []RankedCandidate, profile store.PersonalProfile, userNeed string) []RankedCandidate {
	if r.llmProvider == nil || len(ranked) < 2 {
		return ranked
	}

	prompt := r.buildPrompt(ranked, profile, userNeed)
	response, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		r.logf("[WARN] generative re-rank failed, keeping heuristic order: %v", err)
		return ranked
	}

	adjustments, err := parseAdjustments(response, ranked)
	if err != nil {
		r.logf("[WARN] re-rank parsing failed, keeping heuristic order: %v", err)
		return ranked
	}

	out := make([]RankedCandidate, len(ranked))
	copy(out, ranked)
	for i := range out {
		if delta, ok := adjustments[out[i].SpecialistId]; ok {
			out[i].Personalization.Overall = clamp(out[i].Personalization.Overall+delta, 0, 100)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Personalization.Overall != out[j].Personalization.Overall {
			return out[i].Personalization.Overall > out[j].Personalization.Overall
		}
		return out[i].Similarity > out[j].Similarity
	})
	return out
}

func (r *Reranker) buildPrompt(ranked []RankedCandidate, profile store.PersonalProfile, userNeed string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You refine a ranked list of specialists for one client.\n")
	prompt.WriteString("You may nudge scores, not rewrite them. You do NOT add or remove candidates.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<client>\n")
	if userNeed != "" {
		prompt.WriteString(fmt.Sprintf("stated need: %s\n", userNeed))
	}
	if profile.AgeBracket != "" {
		prompt.WriteString(fmt.Sprintf("age: %s\n", profile.AgeBracket))
	}
	if profile.ExperienceLevel != "" {
		prompt.WriteString(fmt.Sprintf("experience with specialists: %s\n", profile.ExperienceLevel))
	}
	prompt.WriteString("</client>\n\n")

	prompt.WriteString("<candidates>\n")
	for i, c := range ranked {
		prompt.WriteString(fmt.Sprintf("%d. id=%s %q - %s (score %.0f)\n",
			i+1, c.SpecialistId, c.Name, c.Tagline, c.Personalization.Overall))
	}
	prompt.WriteString("</candidates>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString(fmt.Sprintf("Respond with ONLY a JSON array. delta is between -%.0f and %.0f:\n", maxRerankDelta, maxRerankDelta))
	prompt.WriteString("[\n")
	prompt.WriteString("  {\"specialist_id\": \"...\", \"delta\": 5, \"reasoning\": \"brief\"}\n")
	prompt.WriteString("]\n")
	prompt.WriteString("Only include candidates whose score should change.\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// parseAdjustments validates strictly: JSON array, ids must exist in the
// ranked list, deltas clamped to the bound. Unknown ids reject the batch
// since they signal the model hallucinating candidates.
func parseAdjustments(response string, ranked []RankedCandidate) (map[string]float64, error) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var adjustments []rerankAdjustment
	if err := json.Unmarshal([]byte(response[start:end+1]), &adjustments); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	known := make(map[string]bool, len(ranked))
	for _, c := range ranked {
		known[c.SpecialistId] = true
	}

	out := make(map[string]float64, len(adjustments))
	for _, adj := range adjustments {
		if !known[adj.SpecialistId] {
			return nil, fmt.Errorf("unknown specialist id %q in re-rank output", adj.SpecialistId)
		}
		out[adj.SpecialistId] = clamp(adj.Delta, -maxRerankDelta, maxRerankDelta)
	}
	return out, nil
}

func (r *Reranker) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
