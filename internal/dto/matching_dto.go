package dto

import (
	"github.com/google/uuid"

	"specialist-match-be/pkg/match/rank"
	"specialist-match-be/pkg/store"
)

type CreateMatchSessionRequest struct {
	UserId string `json:"user_id" validate:"required"`
}

type CreateMatchSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
}

type ConverseRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Message   string    `json:"message"`
	// Answers are structured responses to previously asked questions,
	// keyed by the slot each question fills.
	Answers map[string]any `json:"answers,omitempty"`
}

// ConverseResponse is one conversational turn's outcome: either the next
// questions to render, or a ranked result page when the analyzer decided
// the conversation is ready to search.
type ConverseResponse struct {
	SessionId  uuid.UUID `json:"session_id"`
	Stage      string    `json:"stage"`
	Confidence float64   `json:"confidence"`
	// Questions to render next; empty when SearchPerformed is true.
	Questions []store.StructuredQuestion `json:"questions,omitempty"`

	SearchPerformed bool       `json:"search_performed"`
	Matches         []MatchDTO `json:"matches,omitempty"`
	// Degraded marks results retrieved through the keyword fallback after
	// an embedding failure.
	Degraded bool `json:"degraded,omitempty"`
	// ForceProceeded marks a search triggered by the question budget
	// rather than confidence.
	ForceProceeded bool `json:"force_proceeded,omitempty"`
}

type MatchDTO struct {
	SpecialistId    string     `json:"specialist_id"`
	Name            string     `json:"name"`
	Tagline         string     `json:"tagline"`
	Category        string     `json:"category"`
	WorkFormats     []string   `json:"work_formats"`
	City            string     `json:"city,omitempty"`
	ExperienceYears int        `json:"experience_years"`
	PriceMinor      int64      `json:"price_minor"`
	Verified        bool       `json:"verified"`
	Similarity      float64    `json:"similarity"`
	Score           rank.Score `json:"score"`
	MatchReasons    []string   `json:"match_reasons"`
}

func ToMatchDTO(rc rank.RankedCandidate) MatchDTO {
	return MatchDTO{
		SpecialistId:    rc.SpecialistId,
		Name:            rc.Name,
		Tagline:         rc.Tagline,
		Category:        rc.Category,
		WorkFormats:     rc.WorkFormats,
		City:            rc.City,
		ExperienceYears: rc.Experience,
		PriceMinor:      rc.PriceMinor,
		Verified:        rc.Verified,
		Similarity:      rc.Similarity,
		Score:           rc.Personalization,
		MatchReasons:    rc.MatchReasons,
	}
}
