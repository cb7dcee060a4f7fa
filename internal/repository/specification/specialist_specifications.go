package specification

import (
	"encoding/json"

	"gorm.io/gorm"
)

// ByCategory filters specialists to one served category.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// AcceptingClients keeps only specialists currently taking new clients
// with remaining contact quota.
type AcceptingClients struct{}

func (s AcceptingClients) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("accepting_clients = ?", true).Where("contact_quota > 0")
}

// WithFormat matches a work format; hybrid specialists match either format.
type WithFormat struct {
	Format string
}

func (s WithFormat) Apply(db *gorm.DB) *gorm.DB {
	want, _ := json.Marshal([]string{s.Format})
	return db.Where(
		"work_formats @> ?::jsonb OR work_formats @> '[\"hybrid\"]'::jsonb",
		string(want),
	)
}

// InCity filters by city (relevant for offline formats only).
type InCity struct {
	City string
}

func (s InCity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("city = ?", s.City)
}

// MinExperience keeps specialists with at least Years of practice.
type MinExperience struct {
	Years int
}

func (s MinExperience) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("experience_years >= ?", s.Years)
}

// MaxPrice caps the per-session price. PriceMinor is in minor currency
// units, so callers converting from major units must multiply by 100 first.
type MaxPrice struct {
	PriceMinor int64
}

func (s MaxPrice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price_minor <= ?", s.PriceMinor)
}

// VerifiedOnly keeps verified profiles.
type VerifiedOnly struct{}

func (s VerifiedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("verified = ?", true)
}

// KeywordMatch does case-insensitive substring matching over the lexical
// profile fields. Used by the keyword branch of hybrid search.
type KeywordMatch struct {
	Query string
}

func (s KeywordMatch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where(
		"name ILIKE ? OR tagline ILIKE ? OR description ILIKE ?",
		pattern, pattern, pattern,
	)
}
