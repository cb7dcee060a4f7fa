package rank

import (
	"log"
	"sort"

	"specialist-match-be/internal/entity"
	"specialist-match-be/pkg/store"
)

const (
	baseline = 50.0
	// maxRuleDelta bounds how far one heuristic rule can push a sub-score.
	maxRuleDelta = 25.0
)

// Score holds the six personalization sub-scores plus their mean.
// Each stays in [0,100]; Overall is the final sort key.
type Score struct {
	Category    float64 `json:"category"`
	Format      float64 `json:"format"`
	Experience  float64 `json:"experience"`
	Price       float64 `json:"price"`
	Preference  float64 `json:"preference"`
	Demographic float64 `json:"demographic"`
	Overall     float64 `json:"overall"`
}

// RankedCandidate is a retrieval candidate with its personalization verdict.
type RankedCandidate struct {
	store.Candidate
	Personalization Score    `json:"personalization"`
	MatchReasons    []string `json:"match_reasons"`
}

// rule is one named heuristic adjustment. Each rule touches exactly one
// sub-score with a bounded delta; keeping them named and independent makes
// rule changes reviewable and unit-testable in isolation.
type rule struct {
	name  string
	apply func(c store.Candidate, profile store.PersonalProfile, category string, params store.SearchParams) (target string, delta float64)
}

const (
	subCategory    = "category"
	subFormat      = "format"
	subExperience  = "experience"
	subPrice       = "price"
	subPreference  = "preference"
	subDemographic = "demographic"
)

var rules = []rule{
	{
		name: "category_alignment",
		apply: func(c store.Candidate, _ store.PersonalProfile, category string, _ store.SearchParams) (string, float64) {
			if category == "" {
				return subCategory, 0
			}
			if c.Category == category {
				return subCategory, 25
			}
			return subCategory, -25
		},
	},
	{
		name: "format_alignment",
		apply: func(c store.Candidate, _ store.PersonalProfile, _ string, params store.SearchParams) (string, float64) {
			if params.WorkFormat == "" {
				return subFormat, 0
			}
			for _, f := range c.WorkFormats {
				if f == params.WorkFormat || f == entity.FormatHybrid {
					return subFormat, 20
				}
			}
			return subFormat, -15
		},
	},
	{
		name: "experienced_seeker_wants_seasoned",
		apply: func(c store.Candidate, profile store.PersonalProfile, _ string, _ store.SearchParams) (string, float64) {
			if profile.ExperienceLevel != "experienced" {
				return subExperience, 0
			}
			if c.Experience >= 7 {
				return subExperience, 15
			}
			return subExperience, -10
		},
	},
	{
		name: "first_timer_wants_established",
		apply: func(c store.Candidate, profile store.PersonalProfile, _ string, _ store.SearchParams) (string, float64) {
			// First-time clients drop out fastest with very junior
			// specialists; a few years of practice reads as safe.
			if profile.ExperienceLevel != "first_time" {
				return subExperience, 0
			}
			if c.Experience >= 3 {
				return subExperience, 10
			}
			return subExperience, -5
		},
	},
	{
		name: "price_headroom",
		apply: func(c store.Candidate, _ store.PersonalProfile, _ string, params store.SearchParams) (string, float64) {
			if params.MaxPriceMinor <= 0 {
				return subPrice, 0
			}
			switch {
			case c.PriceMinor <= params.MaxPriceMinor*8/10:
				return subPrice, 15
			case c.PriceMinor <= params.MaxPriceMinor:
				return subPrice, 5
			default:
				return subPrice, -20
			}
		},
	},
	{
		name: "verified_profile",
		apply: func(c store.Candidate, _ store.PersonalProfile, _ string, _ store.SearchParams) (string, float64) {
			if c.Verified {
				return subPreference, 10
			}
			return subPreference, 0
		},
	},
	{
		name: "same_gender_psychology",
		apply: func(c store.Candidate, profile store.PersonalProfile, category string, _ store.SearchParams) (string, float64) {
			// Observed drop-off data: same-gender pairing matters in
			// psychology, is irrelevant for trainers and nutritionists.
			if category != entity.CategoryPsychology || profile.Gender == "" || c.Gender == "" {
				return subDemographic, 0
			}
			if profile.Gender == c.Gender {
				return subDemographic, 10
			}
			return subDemographic, 0
		},
	},
	{
		name: "age_stage_proximity",
		apply: func(c store.Candidate, profile store.PersonalProfile, _ string, _ store.SearchParams) (string, float64) {
			switch profile.AgeBracket {
			case "18-25":
				if c.Experience <= 10 {
					return subDemographic, 8
				}
			case "46+":
				if c.Experience >= 10 {
					return subDemographic, 12
				}
			}
			return subDemographic, 0
		},
	},
}

// Fusion combines retrieval relevance with profile-compatibility heuristics.
type Fusion struct {
	logger *log.Logger
}

func NewFusion(logger *log.Logger) *Fusion {
	return &Fusion{logger: logger}
}

// Rank scores and orders candidates. Pure over its inputs: the same
// candidates in any input order produce the same output order.
func (f *Fusion) Rank(candidates []store.Candidate, profile store.PersonalProfile, category string, params store.SearchParams) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		score := f.score(c, profile, category, params)
		ranked = append(ranked, RankedCandidate{
			Candidate:       c,
			Personalization: score,
			MatchReasons:    matchReasons(c, profile, category, params),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Personalization.Overall != ranked[j].Personalization.Overall {
			return ranked[i].Personalization.Overall > ranked[j].Personalization.Overall
		}
		// Tie on overall falls back to retrieval similarity; beyond that
		// the stable sort preserves the retrieval order.
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

func (f *Fusion) score(c store.Candidate, profile store.PersonalProfile, category string, params store.SearchParams) Score {
	subs := map[string]float64{
		subCategory:    baseline,
		subFormat:      baseline,
		subExperience:  baseline,
		subPrice:       baseline,
		subPreference:  baseline,
		subDemographic: baseline,
	}

	for _, r := range rules {
		target, delta := r.apply(c, profile, category, params)
		if delta == 0 {
			continue
		}
		delta = clamp(delta, -maxRuleDelta, maxRuleDelta)
		subs[target] = clamp(subs[target]+delta, 0, 100)
	}

	s := Score{
		Category:    subs[subCategory],
		Format:      subs[subFormat],
		Experience:  subs[subExperience],
		Price:       subs[subPrice],
		Preference:  subs[subPreference],
		Demographic: subs[subDemographic],
	}
	s.Overall = clamp((s.Category+s.Format+s.Experience+s.Price+s.Preference+s.Demographic)/6, 0, 100)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
