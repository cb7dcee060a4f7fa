package rank

import (
	"fmt"

	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/store"
)

// matchReasons builds 2-4 short human-readable reasons for a candidate.
// Pure and deterministic over (candidate, profile, params): the generative
// re-rank never touches these, so the same candidate always shows the same
// reasons no matter which scoring path ran.
func matchReasons(c store.Candidate, profile store.PersonalProfile, category string, params store.SearchParams) []string {
	var reasons []string

	if category != "" && c.Category == category {
		reasons = append(reasons, categoryReason(category))
	}
	if params.WorkFormat != "" {
		for _, f := range c.WorkFormats {
			if f == params.WorkFormat || f == entity.FormatHybrid {
				reasons = append(reasons, formatReason(params.WorkFormat))
				break
			}
		}
	}
	if c.Experience >= 5 {
		reasons = append(reasons, fmt.Sprintf("%d years of practice", c.Experience))
	}
	if c.Verified {
		reasons = append(reasons, "Verified credentials")
	}
	if category == entity.CategoryPsychology && profile.Gender != "" && profile.Gender == c.Gender {
		reasons = append(reasons, "Specialist of your preferred gender")
	}

	// Keep it a short, scannable list.
	if len(reasons) > 4 {
		reasons = reasons[:4]
	}
	for _, pad := range []string{"Accepting new clients", "Matched your request"} {
		if len(reasons) >= 2 {
			break
		}
		reasons = append(reasons, pad)
	}
	return reasons
}

func categoryReason(category string) string {
	switch category {
	case entity.CategoryPsychology:
		return "Works with psychological concerns like yours"
	case entity.CategoryFitness:
		return "Specializes in fitness training"
	case entity.CategoryNutrition:
		return "Specializes in nutrition counseling"
	default:
		return "Matches your requested specialty"
	}
}

func formatReason(format string) string {
	switch format {
	case entity.FormatOnline:
		return "Offers online sessions"
	case entity.FormatOffline:
		return "Available for in-person sessions"
	default:
		return "Flexible session format"
	}
}
