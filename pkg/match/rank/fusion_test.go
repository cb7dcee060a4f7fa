package rank

import (
	"context"
	"fmt"
	"testing"

	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/llm"
	"specialist-match-be/pkg/store"
)

func candidate(id, name, category string, experience int, similarity float64) store.Candidate {
	return store.Candidate{
		SpecialistId: id,
		Name:         name,
		Category:     category,
		WorkFormats:  []string{entity.FormatOnline},
		Experience:   experience,
		PriceMinor:   400000,
		Similarity:   similarity,
		Source:       "semantic",
	}
}

func TestRankSortedDescending(t *testing.T) {
	f := NewFusion(nil)
	candidates := []store.Candidate{
		candidate("a", "Anna", entity.CategoryFitness, 2, 0.9), // wrong category
		candidate("b", "Boris", entity.CategoryPsychology, 8, 0.7),
		candidate("c", "Clara", entity.CategoryPsychology, 1, 0.8),
	}
	profile := store.PersonalProfile{ExperienceLevel: "experienced"}
	params := store.SearchParams{WorkFormat: entity.FormatOnline}

	ranked := f.Rank(candidates, profile, entity.CategoryPsychology, params)
	if len(ranked) != 3 {
		t.Fatalf("got %d ranked, want 3", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Personalization.Overall > ranked[i-1].Personalization.Overall {
			t.Errorf("not sorted at %d: %.1f > %.1f", i,
				ranked[i].Personalization.Overall, ranked[i-1].Personalization.Overall)
		}
	}
	if ranked[0].SpecialistId != "b" {
		t.Errorf("seasoned same-category specialist should rank first, got %s", ranked[0].Name)
	}
	if ranked[len(ranked)-1].SpecialistId != "a" {
		t.Errorf("wrong-category candidate should rank last, got %s", ranked[len(ranked)-1].Name)
	}
}

func TestRankOrderIndependent(t *testing.T) {
	f := NewFusion(nil)
	candidates := []store.Candidate{
		candidate("a", "Anna", entity.CategoryPsychology, 10, 0.91),
		candidate("b", "Boris", entity.CategoryPsychology, 4, 0.85),
		candidate("c", "Clara", entity.CategoryPsychology, 7, 0.74),
		candidate("d", "Dina", entity.CategoryFitness, 3, 0.66),
	}
	profile := store.PersonalProfile{AgeBracket: "46+", ExperienceLevel: "experienced"}
	params := store.SearchParams{MaxPriceMinor: 500000}

	forward := f.Rank(candidates, profile, entity.CategoryPsychology, params)

	reversed := make([]store.Candidate, len(candidates))
	for i, c := range candidates {
		reversed[len(candidates)-1-i] = c
	}
	backward := f.Rank(reversed, profile, entity.CategoryPsychology, params)

	for i := range forward {
		if forward[i].SpecialistId != backward[i].SpecialistId {
			t.Fatalf("order depends on input order at %d: %s vs %s",
				i, forward[i].SpecialistId, backward[i].SpecialistId)
		}
		if forward[i].Personalization.Overall != backward[i].Personalization.Overall {
			t.Fatalf("score depends on input order for %s", forward[i].SpecialistId)
		}
	}
}

func TestRankScoreBounds(t *testing.T) {
	f := NewFusion(nil)
	// Worst case: wrong category, wrong format, junior, over budget.
	bad := store.Candidate{
		SpecialistId: "x",
		Category:     entity.CategoryNutrition,
		WorkFormats:  []string{entity.FormatOffline},
		Experience:   0,
		PriceMinor:   9000000,
	}
	best := store.Candidate{
		SpecialistId: "y",
		Category:     entity.CategoryPsychology,
		Gender:       "female",
		WorkFormats:  []string{entity.FormatOnline},
		Experience:   15,
		PriceMinor:   100000,
		Verified:     true,
	}
	profile := store.PersonalProfile{Gender: "female", AgeBracket: "46+", ExperienceLevel: "experienced"}
	params := store.SearchParams{WorkFormat: entity.FormatOnline, MaxPriceMinor: 500000}

	ranked := f.Rank([]store.Candidate{bad, best}, profile, entity.CategoryPsychology, params)
	for _, rc := range ranked {
		s := rc.Personalization
		for name, v := range map[string]float64{
			"category": s.Category, "format": s.Format, "experience": s.Experience,
			"price": s.Price, "preference": s.Preference, "demographic": s.Demographic,
			"overall": s.Overall,
		} {
			if v < 0 || v > 100 {
				t.Errorf("%s: sub-score %s = %.1f out of [0,100]", rc.SpecialistId, name, v)
			}
		}
	}
	if ranked[0].SpecialistId != "y" {
		t.Errorf("best-fit candidate not first: %+v", ranked[0])
	}
}

func TestRankEmptyProfileDegrades(t *testing.T) {
	f := NewFusion(nil)
	ranked := f.Rank([]store.Candidate{
		candidate("a", "Anna", entity.CategoryPsychology, 5, 0.9),
	}, store.PersonalProfile{}, entity.CategoryPsychology, store.SearchParams{})
	if len(ranked) != 1 {
		t.Fatalf("got %d ranked", len(ranked))
	}
	if ranked[0].Personalization.Overall <= 0 {
		t.Errorf("empty profile must still score, got %.1f", ranked[0].Personalization.Overall)
	}
}

func TestMatchReasonsDeterministic(t *testing.T) {
	c := candidate("a", "Anna", entity.CategoryPsychology, 9, 0.9)
	c.Verified = true
	profile := store.PersonalProfile{Gender: "female"}
	params := store.SearchParams{WorkFormat: entity.FormatOnline}

	first := matchReasons(c, profile, entity.CategoryPsychology, params)
	second := matchReasons(c, profile, entity.CategoryPsychology, params)

	if len(first) < 2 || len(first) > 4 {
		t.Fatalf("got %d reasons, want 2-4: %v", len(first), first)
	}
	if len(first) != len(second) {
		t.Fatal("reasons not deterministic")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("reason %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestMatchReasonsMinimumTwo(t *testing.T) {
	// A candidate matching nothing still gets two generic reasons.
	c := store.Candidate{SpecialistId: "x", Category: entity.CategoryFitness, Experience: 1}
	reasons := matchReasons(c, store.PersonalProfile{}, entity.CategoryPsychology, store.SearchParams{})
	if len(reasons) < 2 {
		t.Errorf("got %d reasons, want at least 2: %v", len(reasons), reasons)
	}
}

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func rankedFixture() []RankedCandidate {
	f := NewFusion(nil)
	anna := candidate("a", "Anna", entity.CategoryPsychology, 9, 0.9)
	anna.Verified = true
	return f.Rank([]store.Candidate{
		anna,
		candidate("b", "Boris", entity.CategoryPsychology, 4, 0.8),
	}, store.PersonalProfile{}, entity.CategoryPsychology, store.SearchParams{})
}

func TestRefineFallbackOnError(t *testing.T) {
	ranked := rankedFixture()
	r := NewReranker(&stubLLM{err: fmt.Errorf("timeout")}, nil)

	out := r.Refine(context.Background(), ranked, store.PersonalProfile{}, "anxiety")
	if len(out) != len(ranked) {
		t.Fatalf("got %d, want %d", len(out), len(ranked))
	}
	for i := range out {
		if out[i].SpecialistId != ranked[i].SpecialistId {
			t.Errorf("heuristic order not preserved at %d", i)
		}
	}
}

func TestRefineFallbackOnBadSchema(t *testing.T) {
	tests := []string{
		"I think Anna is the best choice!",
		`{"specialist_id": "a", "delta": 5}`,
		`[{"specialist_id": "ghost", "delta": 5}]`, // hallucinated id
	}
	for _, response := range tests {
		ranked := rankedFixture()
		r := NewReranker(&stubLLM{response: response}, nil)
		out := r.Refine(context.Background(), ranked, store.PersonalProfile{}, "")
		for i := range out {
			if out[i].SpecialistId != ranked[i].SpecialistId ||
				out[i].Personalization.Overall != ranked[i].Personalization.Overall {
				t.Errorf("response %q: heuristic scores not authoritative", response)
			}
		}
	}
}

func TestRefineBoundsDelta(t *testing.T) {
	ranked := rankedFixture()
	base := ranked[0].Personalization.Overall
	// The model tries to push the top candidate way up; the delta must be
	// clamped to the bound.
	r := NewReranker(&stubLLM{response: fmt.Sprintf(`[{"specialist_id": %q, "delta": 80}]`, ranked[0].SpecialistId)}, nil)

	out := r.Refine(context.Background(), ranked, store.PersonalProfile{}, "")
	got := out[0].Personalization.Overall
	want := clamp(base+maxRerankDelta, 0, 100)
	if got != want {
		t.Errorf("Overall = %.1f, want %.1f (bounded delta)", got, want)
	}
}

func TestRefineAppliesBoundedReorder(t *testing.T) {
	ranked := rankedFixture()
	if len(ranked) != 2 {
		t.Fatal("fixture broken")
	}
	gap := ranked[0].Personalization.Overall - ranked[1].Personalization.Overall
	if gap <= 0 || gap >= 2*maxRerankDelta {
		t.Skipf("fixture gap %.1f not refinable within bounds", gap)
	}

	// Pull the runner-up above the leader within the allowed window.
	r := NewReranker(&stubLLM{response: fmt.Sprintf(
		`[{"specialist_id": %q, "delta": %.0f}, {"specialist_id": %q, "delta": -%.0f}]`,
		ranked[1].SpecialistId, maxRerankDelta, ranked[0].SpecialistId, maxRerankDelta)}, nil)

	out := r.Refine(context.Background(), ranked, store.PersonalProfile{}, "")
	if out[0].SpecialistId != ranked[1].SpecialistId {
		t.Errorf("bounded refinement should reorder close candidates, got %s first", out[0].SpecialistId)
	}
}
