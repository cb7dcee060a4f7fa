package question

import (
	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/dialog"
	"specialist-match-be/pkg/store"
)

// Static question templates used whenever the LLM path is unavailable or
// returns something malformed. One template per slot; prompts are phrased per
// category where the generic wording would read oddly.

var identityTemplates = []store.StructuredQuestion{
	{
		Slot:     dialog.SlotGender,
		Prompt:   "To personalize your matches, how do you identify?",
		Kind:     store.KindSingleChoice,
		Options:  []string{"Male", "Female", "Prefer not to say"},
		Required: true,
	},
	{
		Slot:     dialog.SlotAgeBracket,
		Prompt:   "Which age group are you in?",
		Kind:     store.KindSingleChoice,
		Options:  []string{"18-25", "26-35", "36-45", "46+"},
		Required: true,
	},
}

var categoryTemplate = store.StructuredQuestion{
	Slot:     dialog.SlotCategory,
	Prompt:   "What kind of specialist are you looking for?",
	Kind:     store.KindSingleChoice,
	Options:  []string{"Psychologist", "Fitness trainer", "Nutritionist"},
	Required: true,
}

var slotTemplates = map[string]map[string]store.StructuredQuestion{
	entity.CategoryPsychology: {
		dialog.SlotWorkFormat: {
			Prompt:  "Would you prefer online sessions or meeting in person?",
			Kind:    store.KindSingleChoice,
			Options: []string{"Online", "In person", "Either works"},
		},
		dialog.SlotProblemType: {
			Prompt:  "What would you like to work on with a psychologist?",
			Kind:    store.KindMultipleChoice,
			Options: []string{"Anxiety", "Depression", "Relationships", "Stress or burnout", "Self-esteem", "Something else"},
		},
		dialog.SlotExperienceLevel: {
			Prompt:  "Have you worked with a therapist before?",
			Kind:    store.KindSingleChoice,
			Options: []string{"This is my first time", "Yes, I have"},
		},
		dialog.SlotUrgency: {
			Prompt:  "How soon would you like to start?",
			Kind:    store.KindSingleChoice,
			Options: []string{"As soon as possible", "Within a few weeks", "Just exploring"},
		},
		"communication_style": {
			Prompt:  "What style of communication suits you best?",
			Kind:    store.KindSkippable,
			Options: []string{"Gentle and supportive", "Direct and structured", "No preference"},
		},
	},
	entity.CategoryFitness: {
		dialog.SlotWorkFormat: {
			Prompt:  "Do you want to train online or in person?",
			Kind:    store.KindSingleChoice,
			Options: []string{"Online", "In person", "Either works"},
		},
		dialog.SlotGoal: {
			Prompt:  "What is your main training goal?",
			Kind:    store.KindSingleChoice,
			Options: []string{"Lose weight", "Build muscle", "Improve endurance", "General health"},
		},
		"fitness_level": {
			Prompt:  "How would you describe your current fitness level?",
			Kind:    store.KindSingleChoice,
			Options: []string{"Just starting out", "Train occasionally", "Train regularly"},
		},
		"gym_access": {
			Prompt:  "Do you have access to a gym or equipment?",
			Kind:    store.KindSkippable,
			Options: []string{"Full gym", "Some equipment at home", "No equipment"},
		},
	},
	entity.CategoryNutrition: {
		dialog.SlotGoal: {
			Prompt:  "What would you like a nutritionist to help you with?",
			Kind:    store.KindSingleChoice,
			Options: []string{"Weight management", "Sports nutrition", "Managing a health condition", "Healthier eating habits"},
		},
		"diet_restrictions": {
			Prompt:  "Do you have any dietary restrictions or allergies?",
			Kind:    store.KindFreeText,
		},
		dialog.SlotWorkFormat: {
			Prompt:  "Would you prefer online consultations or in-person visits?",
			Kind:    store.KindSingleChoice,
			Options: []string{"Online", "In person", "Either works"},
		},
		"medical_conditions": {
			Prompt:  "Any medical conditions your nutritionist should know about?",
			Kind:    store.KindSkippable,
		},
	},
}

// fallbackQuestions builds the deterministic question set for the missing
// slots, required tier first, clipped to limit.
func fallbackQuestions(category string, missing []string, limit int) []store.StructuredQuestion {
	if limit <= 0 {
		return nil
	}

	req, known := dialog.RequirementsFor(category)
	requiredSet := map[string]bool{}
	if known {
		for _, s := range req.Required {
			requiredSet[s] = true
		}
	}

	var out []store.StructuredQuestion
	appendSlot := func(slot string) {
		if len(out) >= limit {
			return
		}
		var tmpl store.StructuredQuestion
		switch slot {
		case dialog.SlotGender:
			tmpl = identityTemplates[0]
		case dialog.SlotAgeBracket:
			tmpl = identityTemplates[1]
		case dialog.SlotCategory:
			tmpl = categoryTemplate
		default:
			byCat, ok := slotTemplates[category]
			if !ok {
				return
			}
			tmpl, ok = byCat[slot]
			if !ok {
				return
			}
			tmpl.Slot = slot
			tmpl.Required = requiredSet[slot]
		}
		tmpl.Category = category
		out = append(out, tmpl)
	}

	// Required tier first, preserving the analyzer's missing order
	for _, slot := range missing {
		if slot == dialog.SlotGender || slot == dialog.SlotAgeBracket ||
			slot == dialog.SlotCategory || requiredSet[slot] {
			appendSlot(slot)
		}
	}
	for _, slot := range missing {
		if slot == dialog.SlotGender || slot == dialog.SlotAgeBracket ||
			slot == dialog.SlotCategory || requiredSet[slot] {
			continue
		}
		appendSlot(slot)
	}

	for i := range out {
		out[i].Order = i
	}
	return out
}
