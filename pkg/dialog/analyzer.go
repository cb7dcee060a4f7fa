package dialog

import (
	"log"

	"specialist-match-be/pkg/store"
)

// ConfidenceThreshold gates ready_to_search: below it the analyzer keeps
// asking for clarification even when required slots are nominally filled,
// up to the category's question ceiling.
const ConfidenceThreshold = 0.8

// Analysis is the analyzer's verdict for one conversation state.
type Analysis struct {
	Stage         Stage    `json:"stage"`
	Category      string   `json:"category,omitempty"`
	MissingSlots  []string `json:"missing_slots"`
	Confidence    float64  `json:"confidence"`
	ReadyToSearch bool     `json:"ready_to_search"`
	// ForceProceeded marks a search started by budget exhaustion rather
	// than confidence; callers surface reduced confidence downstream.
	ForceProceeded bool `json:"force_proceeded,omitempty"`
}

// Analyzer decides which stage a conversation is in and whether retrieval
// should begin. Pure over conversation state; never returns an error.
type Analyzer struct {
	logger *log.Logger
}

func NewAnalyzer(logger *log.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze evaluates the precedence chain:
// identity slots → category → per-category required slots → confidence.
func (a *Analyzer) Analyze(state *store.ConversationState) Analysis {
	category := a.resolveCategory(state)
	req, known := RequirementsFor(category)

	conversation := state.UserText()
	confidence := a.confidence(state, category)
	asked := len(state.QuestionsAsked)

	// Budget exhausted: force-proceed regardless of anything else, so a
	// low-confidence conversation can never loop forever.
	if asked >= req.MaxQuestions {
		a.logf("question budget reached (%d/%d), force-proceeding category=%q confidence=%.2f",
			asked, req.MaxQuestions, category, confidence)
		return Analysis{
			Stage:          StageReadyToSearch,
			Category:       category,
			MissingSlots:   a.missingSlots(state, category),
			Confidence:     confidence,
			ReadyToSearch:  true,
			ForceProceeded: true,
		}
	}

	// 1. Demographic identity first
	if !state.HasSlot(SlotGender) || !state.HasSlot(SlotAgeBracket) {
		return Analysis{
			Stage:        StageCollectingIdentity,
			Category:     category,
			MissingSlots: a.missingIdentity(state),
			Confidence:   confidence,
		}
	}

	// 2. Core need not inferred yet
	if !known {
		return Analysis{
			Stage:        StageClarifyingDetails,
			MissingSlots: []string{SlotCategory},
			Confidence:   confidence,
		}
	}

	// 3. Category-specific required slots
	missing := a.missingRequired(state, req)
	if len(missing) > 0 {
		return Analysis{
			Stage:        StageClarifyingDetails,
			Category:     category,
			MissingSlots: append(missing, a.missingRecommended(state, req)...),
			Confidence:   confidence,
		}
	}

	// 4. Required slots filled; confirm the conversation actually talks
	// about the topic and confidence clears the bar.
	if !ContainsTopicVocabulary(conversation, category) || confidence < ConfidenceThreshold {
		return Analysis{
			Stage:        StageClarifyingDetails,
			Category:     category,
			MissingSlots: a.missingRecommended(state, req),
			Confidence:   confidence,
		}
	}

	return Analysis{
		Stage:         StageReadyToSearch,
		Category:      category,
		MissingSlots:  a.missingRecommended(state, req),
		Confidence:    confidence,
		ReadyToSearch: true,
	}
}

func (a *Analyzer) resolveCategory(state *store.ConversationState) string {
	if cat := state.SlotString(SlotCategory); cat != "" {
		return cat
	}
	return InferCategory(state.UserText())
}

// confidence blends required coverage (40%), recommended coverage (30%),
// lexical specificity (20%) and turns spent (10%, capped).
func (a *Analyzer) confidence(state *store.ConversationState, category string) float64 {
	req, known := RequirementsFor(category)
	if !known {
		// Without a category only specificity and turn count can score.
		spent := float64(len(state.Turns)) / float64(2*DefaultMaxQuestions)
		if spent > 1 {
			spent = 1
		}
		return 0.2*LexicalSpecificity(state.UserText(), "") + 0.1*spent
	}

	requiredCov := slotCoverage(state, req.Required)
	recommendedCov := slotCoverage(state, req.Recommended)
	specificity := LexicalSpecificity(state.UserText(), category)

	spent := float64(len(state.Turns)) / float64(2*req.MaxQuestions)
	if spent > 1 {
		spent = 1
	}

	return 0.4*requiredCov + 0.3*recommendedCov + 0.2*specificity + 0.1*spent
}

func slotCoverage(state *store.ConversationState, slots []string) float64 {
	if len(slots) == 0 {
		return 1
	}
	filled := 0
	for _, s := range slots {
		if state.HasSlot(s) {
			filled++
		}
	}
	return float64(filled) / float64(len(slots))
}

func (a *Analyzer) missingIdentity(state *store.ConversationState) []string {
	var missing []string
	if !state.HasSlot(SlotGender) {
		missing = append(missing, SlotGender)
	}
	if !state.HasSlot(SlotAgeBracket) {
		missing = append(missing, SlotAgeBracket)
	}
	return missing
}

func (a *Analyzer) missingRequired(state *store.ConversationState, req CategoryRequirements) []string {
	var missing []string
	for _, s := range req.Required {
		if !state.HasSlot(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

func (a *Analyzer) missingRecommended(state *store.ConversationState, req CategoryRequirements) []string {
	var missing []string
	for _, s := range req.Recommended {
		if !state.HasSlot(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

func (a *Analyzer) missingSlots(state *store.ConversationState, category string) []string {
	req, known := RequirementsFor(category)
	if !known {
		return a.missingIdentity(state)
	}
	return append(a.missingRequired(state, req), a.missingRecommended(state, req)...)
}

func (a *Analyzer) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf("[DIALOG] "+format, args...)
	}
}
