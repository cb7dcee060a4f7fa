package dialog

import "specialist-match-be/internal/entity"

// CategoryRequirements defines what a category needs before retrieval can
// start. Sensitive categories allow more clarification turns than simple ones.
type CategoryRequirements struct {
	Required    []string
	Recommended []string
	// MaxQuestions is the ceiling on questions per conversation. Reaching
	// it force-proceeds to search regardless of confidence.
	MaxQuestions int
	// Vocabulary used for both category inference and the topic-relevance
	// check gating ready_to_search.
	Vocabulary []string
}

// DefaultMaxQuestions applies while the category is still unknown.
const DefaultMaxQuestions = 5

var categoryRequirements = map[string]CategoryRequirements{
	entity.CategoryPsychology: {
		Required:     []string{SlotWorkFormat, SlotProblemType},
		Recommended:  []string{SlotExperienceLevel, SlotUrgency, "communication_style"},
		MaxQuestions: 7, // sensitive category, allow a longer intake
		Vocabulary: []string{
			"anxiety", "depression", "therapy", "therapist", "stress",
			"burnout", "panic", "relationship", "psychologist", "trauma",
			"sleep", "self-esteem",
		},
	},
	entity.CategoryFitness: {
		Required:     []string{SlotWorkFormat, SlotGoal},
		Recommended:  []string{"fitness_level", "gym_access"},
		MaxQuestions: 4,
		Vocabulary: []string{
			"workout", "gym", "training", "trainer", "muscle", "cardio",
			"strength", "running", "weight", "fitness", "coach",
		},
	},
	entity.CategoryNutrition: {
		Required:     []string{SlotGoal, "diet_restrictions"},
		Recommended:  []string{SlotWorkFormat, "medical_conditions"},
		MaxQuestions: 5,
		Vocabulary: []string{
			"diet", "nutrition", "nutritionist", "meal", "food", "eating",
			"calories", "vitamins", "allergy", "digestion",
		},
	},
}

// RequirementsFor returns the per-category slot requirements; ok is false
// for an unknown category, in which case the zero value with the default
// budget is returned.
func RequirementsFor(category string) (CategoryRequirements, bool) {
	if req, ok := categoryRequirements[category]; ok {
		return req, true
	}
	return CategoryRequirements{MaxQuestions: DefaultMaxQuestions}, false
}

// Categories lists the served category names.
func Categories() []string {
	return []string{entity.CategoryPsychology, entity.CategoryFitness, entity.CategoryNutrition}
}
