package dialog

import (
	"regexp"
	"strconv"
	"strings"

	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/store"
)

var ageRe = regexp.MustCompile(`\b(\d{2})\b`)

// ExtractSlots reads the latest user utterance and fills any slots it can
// recognize lexically. An empty utterance is skipped without error; the LLM
// question generator covers everything this cheap pass misses.
func ExtractSlots(state *store.ConversationState) {
	if len(state.Turns) == 0 {
		return
	}
	last := state.Turns[len(state.Turns)-1]
	if last.Role != "user" {
		return
	}
	text := strings.ToLower(strings.TrimSpace(last.Text))
	if text == "" {
		// Malformed turn: skip extraction, never fail stage computation
		return
	}

	if state.CollectedSlots == nil {
		state.CollectedSlots = map[string]any{}
	}

	extractGender(state, text)
	extractAge(state, text)
	extractFormat(state, text)
	extractExperienceLevel(state, text)

	if !state.HasSlot(SlotCategory) {
		if cat := InferCategory(text); cat != "" {
			state.CollectedSlots[SlotCategory] = cat
		}
	}

	extractProblem(state, text)
	extractGoal(state, text)
}

// extractProblem fills problem_type for psychology conversations from the
// first problem-vocabulary hit. Coarse, but enough to skip a question when
// the user already named their concern.
func extractProblem(state *store.ConversationState, text string) {
	if state.HasSlot(SlotProblemType) || state.SlotString(SlotCategory) != entity.CategoryPsychology {
		return
	}
	for _, problem := range []string{
		"anxiety", "depression", "burnout", "panic", "trauma",
		"relationship", "sleep", "self-esteem", "stress",
	} {
		if strings.Contains(text, problem) {
			state.CollectedSlots[SlotProblemType] = problem
			return
		}
	}
}

func extractGoal(state *store.ConversationState, text string) {
	if state.HasSlot(SlotGoal) {
		return
	}
	category := state.SlotString(SlotCategory)
	if category != entity.CategoryFitness && category != entity.CategoryNutrition {
		return
	}
	switch {
	case strings.Contains(text, "lose weight") || strings.Contains(text, "weight loss"):
		state.CollectedSlots[SlotGoal] = "weight_loss"
	case strings.Contains(text, "muscle") || strings.Contains(text, "get stronger"):
		state.CollectedSlots[SlotGoal] = "build_muscle"
	case strings.Contains(text, "endurance") || strings.Contains(text, "marathon"):
		state.CollectedSlots[SlotGoal] = "endurance"
	case strings.Contains(text, "healthier") || strings.Contains(text, "general health"):
		state.CollectedSlots[SlotGoal] = "general_health"
	}
}

func extractGender(state *store.ConversationState, text string) {
	if state.HasSlot(SlotGender) {
		return
	}
	switch {
	case containsWord(text, "male") || containsWord(text, "man") || containsWord(text, "guy"):
		state.CollectedSlots[SlotGender] = "male"
		state.Profile.Gender = "male"
	case containsWord(text, "female") || containsWord(text, "woman"):
		state.CollectedSlots[SlotGender] = "female"
		state.Profile.Gender = "female"
	}
}

func extractAge(state *store.ConversationState, text string) {
	if state.HasSlot(SlotAgeBracket) {
		return
	}
	// "30s", "in my 20s"
	if m := regexp.MustCompile(`\b([2-6]0)s\b`).FindStringSubmatch(text); m != nil {
		decade, _ := strconv.Atoi(m[1])
		bracket := bracketForAge(decade + 5)
		state.CollectedSlots[SlotAgeBracket] = bracket
		state.Profile.AgeBracket = bracket
		return
	}
	if m := ageRe.FindStringSubmatch(text); m != nil {
		age, _ := strconv.Atoi(m[1])
		if age >= 16 && age <= 90 {
			bracket := bracketForAge(age)
			state.CollectedSlots[SlotAgeBracket] = bracket
			state.Profile.AgeBracket = bracket
		}
	}
}

func bracketForAge(age int) string {
	switch {
	case age <= 25:
		return "18-25"
	case age <= 35:
		return "26-35"
	case age <= 45:
		return "36-45"
	default:
		return "46+"
	}
}

func extractFormat(state *store.ConversationState, text string) {
	if state.HasSlot(SlotWorkFormat) {
		return
	}
	switch {
	case strings.Contains(text, "online") || strings.Contains(text, "remote") || strings.Contains(text, "video"):
		state.CollectedSlots[SlotWorkFormat] = entity.FormatOnline
	case strings.Contains(text, "in person") || strings.Contains(text, "in-person") || strings.Contains(text, "offline") || strings.Contains(text, "face to face"):
		state.CollectedSlots[SlotWorkFormat] = entity.FormatOffline
	}
}

func extractExperienceLevel(state *store.ConversationState, text string) {
	if state.HasSlot(SlotExperienceLevel) {
		return
	}
	switch {
	case strings.Contains(text, "first time") || strings.Contains(text, "first-time") || strings.Contains(text, "never tried") || strings.Contains(text, "beginner"):
		state.CollectedSlots[SlotExperienceLevel] = "first_time"
		state.Profile.ExperienceLevel = "first_time"
	case strings.Contains(text, "before") || strings.Contains(text, "experienced") || strings.Contains(text, "again"):
		state.CollectedSlots[SlotExperienceLevel] = "experienced"
		state.Profile.ExperienceLevel = "experienced"
	}
}

func containsWord(text, word string) bool {
	for _, f := range strings.Fields(strings.NewReplacer(",", " ", ".", " ", "!", " ", "?", " ").Replace(text)) {
		if f == word {
			return true
		}
	}
	return false
}
