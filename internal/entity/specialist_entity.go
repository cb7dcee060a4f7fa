package entity

import (
	"time"

	"github.com/google/uuid"
)

// Served categories. Each category carries its own custom field shape.
const (
	CategoryPsychology = "psychology"
	CategoryFitness    = "fitness"
	CategoryNutrition  = "nutrition"
)

// Work formats a specialist can offer.
const (
	FormatOnline  = "online"
	FormatOffline = "offline"
	FormatHybrid  = "hybrid"
)

type Specialist struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string
	Tagline         string
	Description     string
	Category        string
	Specializations []string
	WorkFormats     []string
	City            string
	ExperienceYears int
	Gender          string
	// Price of one session, stored in minor currency units (e.g. cents).
	PriceMinor       int64
	Verified         bool
	AcceptingClients bool
	// ContactQuota is the remaining visibility budget. A specialist with 0
	// quota is filtered out of search results even when otherwise matching.
	ContactQuota int
	Fields       CategoryFields
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

// HasFormat reports whether the specialist serves the given work format.
func (s *Specialist) HasFormat(format string) bool {
	for _, f := range s.WorkFormats {
		if f == format || f == FormatHybrid {
			return true
		}
	}
	return false
}

// Visible is the profile-visibility predicate re-checked per candidate.
func (s *Specialist) Visible() bool {
	return s.AcceptingClients && s.ContactQuota > 0 && !s.IsDeleted
}
