package entity

import "fmt"

// CategoryFields is a tagged union of per-category custom profile fields.
// Exactly one branch may be set, and it must agree with Specialist.Category.
// Validated at the repository boundary so the text builder and ranking
// fusion always consume a closed, typed shape.
type CategoryFields struct {
	Psychology *PsychologyFields `json:"psychology,omitempty"`
	Fitness    *FitnessFields    `json:"fitness,omitempty"`
	Nutrition  *NutritionFields  `json:"nutrition,omitempty"`
}

type PsychologyFields struct {
	Approaches        []string `json:"approaches"`    // e.g. CBT, gestalt
	ProblemAreas      []string `json:"problem_areas"` // e.g. anxiety, burnout
	SessionMinutes    int      `json:"session_minutes,omitempty"`
	WorksWithCouples  bool     `json:"works_with_couples,omitempty"`
	FirstSessionIntro bool     `json:"first_session_intro,omitempty"`
}

type FitnessFields struct {
	TrainingStyles []string `json:"training_styles"` // e.g. strength, HIIT
	Goals          []string `json:"goals"`           // e.g. weight loss, rehab
	GymRequired    bool     `json:"gym_required,omitempty"`
}

type NutritionFields struct {
	DietApproaches []string `json:"diet_approaches"` // e.g. keto, mediterranean
	Conditions     []string `json:"conditions"`      // e.g. diabetes, IBS
	MealPlans      bool     `json:"meal_plans,omitempty"`
}

// Validate checks that the union branch matches the declared category.
func (f CategoryFields) Validate(category string) error {
	set := 0
	if f.Psychology != nil {
		set++
		if category != CategoryPsychology {
			return fmt.Errorf("psychology fields set for category %q", category)
		}
	}
	if f.Fitness != nil {
		set++
		if category != CategoryFitness {
			return fmt.Errorf("fitness fields set for category %q", category)
		}
	}
	if f.Nutrition != nil {
		set++
		if category != CategoryNutrition {
			return fmt.Errorf("nutrition fields set for category %q", category)
		}
	}
	if set > 1 {
		return fmt.Errorf("multiple category field branches set")
	}
	return nil
}

// ProblemTerms returns the free-text problem/goal vocabulary of whichever
// branch is set. Used by the text builder for embedding weighting.
func (f CategoryFields) ProblemTerms() []string {
	switch {
	case f.Psychology != nil:
		return f.Psychology.ProblemAreas
	case f.Fitness != nil:
		return f.Fitness.Goals
	case f.Nutrition != nil:
		return f.Nutrition.Conditions
	}
	return nil
}

// MethodTerms returns the methodology vocabulary of whichever branch is set.
func (f CategoryFields) MethodTerms() []string {
	switch {
	case f.Psychology != nil:
		return f.Psychology.Approaches
	case f.Fitness != nil:
		return f.Fitness.TrainingStyles
	case f.Nutrition != nil:
		return f.Nutrition.DietApproaches
	}
	return nil
}
