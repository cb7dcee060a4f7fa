package dto

import (
	"time"

	"github.com/google/uuid"

	"specialist-match-be/internal/entity"
)

type CreateSpecialistRequest struct {
	Name            string   `json:"name" validate:"required"`
	Tagline         string   `json:"tagline"`
	Description     string   `json:"description"`
	Category        string   `json:"category" validate:"required,oneof=psychology fitness nutrition"`
	Specializations []string `json:"specializations"`
	WorkFormats     []string `json:"work_formats" validate:"required,min=1,dive,oneof=online offline hybrid"`
	City            string   `json:"city"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=male female"`
	// PriceMinor is the per-session price in minor currency units.
	PriceMinor       int64                 `json:"price_minor" validate:"gte=0"`
	AcceptingClients bool                  `json:"accepting_clients"`
	ContactQuota     int                   `json:"contact_quota" validate:"gte=0"`
	Fields           entity.CategoryFields `json:"fields"`
}

type CreateSpecialistResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateSpecialistRequest struct {
	Id uuid.UUID
	CreateSpecialistRequest
}

type UpdateSpecialistResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowSpecialistResponse struct {
	Id               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Tagline          string                `json:"tagline"`
	Description      string                `json:"description"`
	Category         string                `json:"category"`
	Specializations  []string              `json:"specializations"`
	WorkFormats      []string              `json:"work_formats"`
	City             string                `json:"city,omitempty"`
	ExperienceYears  int                   `json:"experience_years"`
	Gender           string                `json:"gender,omitempty"`
	PriceMinor       int64                 `json:"price_minor"`
	Verified         bool                  `json:"verified"`
	AcceptingClients bool                  `json:"accepting_clients"`
	ContactQuota     int                   `json:"contact_quota"`
	Fields           entity.CategoryFields `json:"fields"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        *time.Time            `json:"updated_at"`
}

// PublishEmbedSpecialistMessage is the in-process message that schedules
// embedding regeneration for one specialist.
type PublishEmbedSpecialistMessage struct {
	SpecialistId uuid.UUID `json:"specialist_id"`
}

// ReindexReport tallies a batch embedding regeneration run.
type ReindexReport struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`
}
