package dialog

import (
	"fmt"
	"testing"

	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/store"
)

func stateWith(slots map[string]any, userText string) *store.ConversationState {
	s := store.NewConversationState("s1", "u1")
	for k, v := range slots {
		s.CollectedSlots[k] = v
	}
	if userText != "" {
		s.Turns = append(s.Turns, store.Turn{Role: "user", Text: userText})
	}
	return s
}

func TestAnalyzeMissingIdentity(t *testing.T) {
	tests := []struct {
		name  string
		slots map[string]any
	}{
		{name: "nothing collected", slots: map[string]any{}},
		{name: "only gender", slots: map[string]any{SlotGender: "male"}},
		{name: "only age", slots: map[string]any{SlotAgeBracket: "26-35"}},
		{
			name: "identity missing but details present",
			slots: map[string]any{
				SlotCategory:   entity.CategoryPsychology,
				SlotWorkFormat: entity.FormatOnline,
			},
		},
	}

	a := NewAnalyzer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Analyze(stateWith(tt.slots, "I feel anxious lately"))
			if got.Stage != StageCollectingIdentity {
				t.Errorf("Stage = %s, want %s", got.Stage, StageCollectingIdentity)
			}
			if got.ReadyToSearch {
				t.Error("ReadyToSearch = true during identity collection")
			}
		})
	}
}

func TestAnalyzeUnknownCategoryClarifies(t *testing.T) {
	a := NewAnalyzer(nil)
	s := stateWith(map[string]any{
		SlotGender:     "female",
		SlotAgeBracket: "26-35",
	}, "I want to talk with somebody")

	got := a.Analyze(s)
	if got.Stage != StageClarifyingDetails {
		t.Fatalf("Stage = %s, want %s", got.Stage, StageClarifyingDetails)
	}
	if len(got.MissingSlots) == 0 || got.MissingSlots[0] != SlotCategory {
		t.Errorf("MissingSlots = %v, want category first", got.MissingSlots)
	}
}

func TestAnalyzePsychologyScenario(t *testing.T) {
	// A first-time seeker with identity, format and problem filled must be
	// ready without the analyzer demanding budget slots.
	a := NewAnalyzer(nil)
	s := stateWith(map[string]any{
		SlotGender:          "male",
		SlotAgeBracket:      "26-35",
		SlotCategory:        entity.CategoryPsychology,
		SlotWorkFormat:      entity.FormatOnline,
		SlotProblemType:     "anxiety",
		SlotExperienceLevel: "first_time",
		SlotUrgency:         "soon",
		"communication_style": "gentle",
	}, "I am a man in my 30s, first time looking for therapy, online, I have anxiety and panic attacks, help me find a therapist")

	got := a.Analyze(s)
	if got.Stage != StageReadyToSearch {
		t.Fatalf("Stage = %s (confidence %.2f), want %s", got.Stage, got.Confidence, StageReadyToSearch)
	}
	if !got.ReadyToSearch {
		t.Error("ReadyToSearch = false")
	}
	for _, slot := range got.MissingSlots {
		if slot == SlotBudget {
			t.Error("budget slot demanded for ready psychology conversation")
		}
	}
	if got.Confidence < ConfidenceThreshold {
		t.Errorf("Confidence = %.2f, want >= %.2f", got.Confidence, ConfidenceThreshold)
	}
}

func TestAnalyzeLowConfidenceKeepsClarifying(t *testing.T) {
	a := NewAnalyzer(nil)
	// Required slots present but the conversation is a single vague word
	// with no recommended slots: confidence stays under the bar.
	s := stateWith(map[string]any{
		SlotGender:      "male",
		SlotAgeBracket:  "26-35",
		SlotCategory:    entity.CategoryPsychology,
		SlotWorkFormat:  entity.FormatOnline,
		SlotProblemType: "stress",
	}, "stress")

	got := a.Analyze(s)
	if got.Stage != StageClarifyingDetails {
		t.Fatalf("Stage = %s (confidence %.2f), want clarifying", got.Stage, got.Confidence)
	}
}

func TestAnalyzeBudgetCeilingForceProceeds(t *testing.T) {
	a := NewAnalyzer(nil)
	s := stateWith(map[string]any{}, "hmm")

	req, _ := RequirementsFor("")
	for i := 0; i < req.MaxQuestions; i++ {
		s.QuestionsAsked = append(s.QuestionsAsked, store.StructuredQuestion{
			Id: fmt.Sprintf("q%d", i), Prompt: "?", Kind: store.KindFreeText,
		})
	}

	got := a.Analyze(s)
	if !got.ReadyToSearch {
		t.Fatal("ReadyToSearch = false after question budget exhausted")
	}
	if !got.ForceProceeded {
		t.Error("ForceProceeded = false for budget-driven search")
	}
}

func TestQuestionCountNeverExceedsCeiling(t *testing.T) {
	// Once asked == MaxQuestions the analyzer always proceeds, so no code
	// path can ask question MaxQuestions+1.
	a := NewAnalyzer(nil)
	for _, category := range Categories() {
		req, _ := RequirementsFor(category)
		s := stateWith(map[string]any{SlotCategory: category}, "vague")
		for i := 0; i < req.MaxQuestions; i++ {
			s.QuestionsAsked = append(s.QuestionsAsked, store.StructuredQuestion{Id: fmt.Sprintf("q%d", i)})
		}
		if got := a.Analyze(s); !got.ReadyToSearch {
			t.Errorf("%s: still asking after %d questions", category, req.MaxQuestions)
		}
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I have anxiety and need a therapist", entity.CategoryPsychology},
		{"looking for a gym trainer to build muscle", entity.CategoryFitness},
		{"need a meal plan and diet advice", entity.CategoryNutrition},
		{"hello there", ""},
	}
	for _, tt := range tests {
		if got := InferCategory(tt.text); got != tt.want {
			t.Errorf("InferCategory(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestLexicalSpecificityRange(t *testing.T) {
	texts := []string{
		"",
		"hi",
		"I need help with anxiety and panic attacks, first time in therapy, prefer online sessions in the evening",
	}
	var prev float64 = -1
	for _, text := range texts {
		got := LexicalSpecificity(text, entity.CategoryPsychology)
		if got < 0 || got > 1 {
			t.Errorf("LexicalSpecificity(%q) = %v out of [0,1]", text, got)
		}
		if got < prev {
			t.Errorf("specificity not monotonic over increasingly specific texts: %v after %v", got, prev)
		}
		prev = got
	}
}

func TestExtractSlots(t *testing.T) {
	s := store.NewConversationState("s1", "u1")
	s.Turns = append(s.Turns, store.Turn{Role: "user", Text: "I'm a male, 34, first time, want online therapy for anxiety"})

	ExtractSlots(s)

	if got := s.SlotString(SlotGender); got != "male" {
		t.Errorf("gender = %q", got)
	}
	if got := s.SlotString(SlotAgeBracket); got != "26-35" {
		t.Errorf("age_bracket = %q", got)
	}
	if got := s.SlotString(SlotWorkFormat); got != entity.FormatOnline {
		t.Errorf("work_format = %q", got)
	}
	if got := s.SlotString(SlotCategory); got != entity.CategoryPsychology {
		t.Errorf("category = %q", got)
	}
}

func TestExtractSlotsEmptyUtterance(t *testing.T) {
	s := store.NewConversationState("s1", "u1")
	s.Turns = append(s.Turns, store.Turn{Role: "user", Text: "   "})

	ExtractSlots(s) // must not panic or invent slots

	if len(s.CollectedSlots) != 0 {
		t.Errorf("slots extracted from empty utterance: %v", s.CollectedSlots)
	}
}
