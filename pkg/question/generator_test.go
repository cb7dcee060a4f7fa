package question

import (
	"context"
	"fmt"
	"testing"

	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/dialog"
	"specialist-match-be/pkg/llm"
	"specialist-match-be/pkg/store"
)

type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.calls++
	return s.response, s.err
}

func clarifyingState(category string) (*store.ConversationState, dialog.Analysis) {
	s := store.NewConversationState("s1", "u1")
	s.CollectedSlots[dialog.SlotGender] = "female"
	s.CollectedSlots[dialog.SlotAgeBracket] = "26-35"
	s.CollectedSlots[dialog.SlotCategory] = category
	s.Turns = append(s.Turns, store.Turn{Role: "user", Text: "I keep feeling anxious"})

	req, _ := dialog.RequirementsFor(category)
	missing := append(append([]string{}, req.Required...), req.Recommended...)
	return s, dialog.Analysis{
		Stage:        dialog.StageClarifyingDetails,
		Category:     category,
		MissingSlots: missing,
		Confidence:   0.4,
	}
}

func TestGenerateFallbackOnTransportError(t *testing.T) {
	provider := &stubLLM{err: fmt.Errorf("connection refused")}
	g := NewGenerator(provider, nil, nil)
	state, analysis := clarifyingState(entity.CategoryPsychology)

	res, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate returned error on LLM failure: %v", err)
	}
	if res.ShouldSearch {
		t.Fatal("ShouldSearch = true while clarifying")
	}
	if len(res.Questions) == 0 {
		t.Fatal("no fallback questions produced")
	}
	for _, q := range res.Questions {
		if q.Prompt == "" || q.Id == "" {
			t.Errorf("malformed fallback question: %+v", q)
		}
	}
}

func TestGenerateFallbackOnInvalidSchema(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "Sure! Here are some questions you could ask."},
		{name: "object not array", response: `{"prompt": "hi", "kind": "free_text"}`},
		{name: "unknown kind", response: `[{"prompt": "hi", "kind": "essay"}]`},
		{name: "choice without options", response: `[{"prompt": "pick one", "kind": "single_choice"}]`},
		{name: "empty prompt", response: `[{"prompt": "  ", "kind": "free_text"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&stubLLM{response: tt.response}, nil, nil)
			state, analysis := clarifyingState(entity.CategoryPsychology)

			res, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
			if err != nil {
				t.Fatalf("Generate returned error: %v", err)
			}
			if len(res.Questions) == 0 {
				t.Fatal("expected template fallback, got nothing")
			}
			// Templates carry the slot they fill; LLM output this broken
			// must never leak through.
			if res.Questions[0].Slot == "" {
				t.Errorf("first question has no slot, looks like leaked LLM output: %+v", res.Questions[0])
			}
		})
	}
}

func TestGenerateOrdersRequiredFirst(t *testing.T) {
	response := `[
		{"prompt": "Any communication style preference?", "kind": "skippable", "required": false, "slot": "communication_style"},
		{"prompt": "What brings you to therapy?", "kind": "free_text", "required": true, "slot": "problem_type"},
		{"prompt": "Online or in person?", "kind": "single_choice", "options": ["Online", "In person"], "required": true, "slot": "work_format"}
	]`
	g := NewGenerator(&stubLLM{response: response}, nil, nil)
	state, analysis := clarifyingState(entity.CategoryPsychology)

	res, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(res.Questions))
	}
	if !res.Questions[0].Required || !res.Questions[1].Required {
		t.Errorf("required questions not first: %+v", res.Questions)
	}
	if res.Questions[2].Slot != "communication_style" {
		t.Errorf("optional question not last: %+v", res.Questions[2])
	}
	for i, q := range res.Questions {
		if q.Order != i {
			t.Errorf("question %d has Order %d", i, q.Order)
		}
	}
}

func TestGenerateClampsToBudget(t *testing.T) {
	state, analysis := clarifyingState(entity.CategoryPsychology)
	req, _ := dialog.RequirementsFor(entity.CategoryPsychology)
	// Only one question left in the budget.
	for i := 0; i < req.MaxQuestions-1; i++ {
		state.QuestionsAsked = append(state.QuestionsAsked, store.StructuredQuestion{Id: fmt.Sprintf("q%d", i)})
	}

	g := NewGenerator(&stubLLM{err: fmt.Errorf("down")}, nil, nil)
	res, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Questions) != 1 {
		t.Errorf("got %d questions with 1 budget slot left", len(res.Questions))
	}

	// Budget fully spent: no more questions, search instead.
	state.QuestionsAsked = append(state.QuestionsAsked, res.Questions...)
	res, err = g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.ShouldSearch || len(res.Questions) != 0 {
		t.Errorf("exhausted budget should trigger search, got %+v", res)
	}
}

func TestGenerateReadyToSearch(t *testing.T) {
	state, _ := clarifyingState(entity.CategoryPsychology)
	state.CollectedSlots[dialog.SlotWorkFormat] = entity.FormatOnline
	analysis := dialog.Analysis{
		Stage:         dialog.StageReadyToSearch,
		Category:      entity.CategoryPsychology,
		ReadyToSearch: true,
	}

	provider := &stubLLM{response: "should not be called"}
	g := NewGenerator(provider, nil, nil)
	res, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !res.ShouldSearch {
		t.Fatal("ShouldSearch = false for ready analysis")
	}
	if provider.calls != 0 {
		t.Error("LLM called for a ready-to-search turn")
	}
	if res.InferredParams["category"] != entity.CategoryPsychology {
		t.Errorf("InferredParams missing category: %v", res.InferredParams)
	}
	if res.InferredParams["work_format"] != entity.FormatOnline {
		t.Errorf("InferredParams missing work_format: %v", res.InferredParams)
	}
}

func TestGenerateCacheHit(t *testing.T) {
	cache := NewLocalCache()
	provider := &stubLLM{response: `[{"prompt": "Online or in person?", "kind": "single_choice", "options": ["Online", "In person"], "required": true, "slot": "work_format"}]`}
	g := NewGenerator(provider, cache, nil)
	state, analysis := clarifyingState(entity.CategoryPsychology)

	first, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("LLM called %d times, want 1 (second call cached)", provider.calls)
	}
	if len(first.Questions) != len(second.Questions) || first.Questions[0].Prompt != second.Questions[0].Prompt {
		t.Errorf("cached questions differ: %+v vs %+v", first.Questions, second.Questions)
	}
	// Every delivery stamps fresh ids, so sessions sharing a cache
	// fingerprint never see each other's question ids.
	if first.Questions[0].Id == second.Questions[0].Id {
		t.Errorf("cache hit reused question id %s", second.Questions[0].Id)
	}

	// A new slot answer changes the fingerprint and busts the cache.
	state.CollectedSlots[dialog.SlotWorkFormat] = entity.FormatOnline
	if _, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("LLM called %d times after slot change, want 2", provider.calls)
	}
}

func TestGenerateCacheHitClampsToBudget(t *testing.T) {
	cache := NewLocalCache()
	provider := &stubLLM{response: `[
		{"prompt": "What brings you to therapy?", "kind": "free_text", "required": true, "slot": "problem_type"},
		{"prompt": "Online or in person?", "kind": "single_choice", "options": ["Online", "In person"], "required": true, "slot": "work_format"},
		{"prompt": "How urgent is this?", "kind": "skippable", "required": false, "slot": "urgency"}
	]`}
	g := NewGenerator(provider, cache, nil)
	state, analysis := clarifyingState(entity.CategoryPsychology)

	first, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(first.Questions) != 3 {
		t.Fatalf("got %d questions on first turn, want 3", len(first.Questions))
	}

	// The budget shrinks to one slot without changing the cache
	// fingerprint; the cached batch must be clamped, not replayed whole.
	req, _ := dialog.RequirementsFor(entity.CategoryPsychology)
	for i := 0; i < req.MaxQuestions-1; i++ {
		state.QuestionsAsked = append(state.QuestionsAsked, store.StructuredQuestion{Id: fmt.Sprintf("q%d", i)})
	}
	second, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("LLM called %d times, want 1 (second call cached)", provider.calls)
	}
	if len(second.Questions) != 1 {
		t.Errorf("got %d questions with 1 budget slot left, want 1", len(second.Questions))
	}
	if len(second.Questions) == 1 && !second.Questions[0].Required {
		t.Errorf("clamped batch dropped a required question: %+v", second.Questions)
	}
}

func TestGenerateCacheHitHonorsBudgetAcrossTurns(t *testing.T) {
	cache := NewLocalCache()
	provider := &stubLLM{err: fmt.Errorf("down")}
	g := NewGenerator(provider, cache, nil)
	state, analysis := clarifyingState(entity.CategoryPsychology)
	req, _ := dialog.RequirementsFor(entity.CategoryPsychology)

	// A user who keeps sending the same message without answering hits the
	// cached batch every turn; asked questions must never repeat a slot or
	// pile up past the category ceiling.
	askedSlots := map[string]bool{}
	for turn := 0; turn < 6; turn++ {
		res, err := g.Generate(context.Background(), GenerationContext{State: state, Analysis: analysis})
		if err != nil {
			t.Fatalf("turn %d: Generate: %v", turn, err)
		}
		for _, q := range res.Questions {
			if q.Slot != "" && askedSlots[q.Slot] {
				t.Fatalf("turn %d repeated slot %q", turn, q.Slot)
			}
			askedSlots[q.Slot] = true
		}
		state.QuestionsAsked = append(state.QuestionsAsked, res.Questions...)
		if len(state.QuestionsAsked) > req.MaxQuestions {
			t.Fatalf("turn %d: asked %d questions, ceiling is %d",
				turn, len(state.QuestionsAsked), req.MaxQuestions)
		}
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("hello", "psychology", map[string]any{"x": 1, "y": "b"})
	b := CacheKey("hello", "psychology", map[string]any{"y": "b", "x": 1})
	if a != b {
		t.Errorf("same inputs, different keys: %s vs %s", a, b)
	}
	c := CacheKey("hello", "fitness", map[string]any{"x": 1, "y": "b"})
	if a == c {
		t.Error("different category, same key")
	}
}

func TestFallbackQuestionsPerCategory(t *testing.T) {
	for _, category := range dialog.Categories() {
		req, _ := dialog.RequirementsFor(category)
		missing := append(append([]string{}, req.Required...), req.Recommended...)
		questions := fallbackQuestions(category, missing, 3)
		if len(questions) == 0 {
			t.Errorf("%s: no fallback templates", category)
			continue
		}
		if !questions[0].Required {
			t.Errorf("%s: first fallback question not required: %+v", category, questions[0])
		}
	}
}
