package store

// Candidate is a specialist joined with retrieval metadata.
// Constructed per search, never persisted.
type Candidate struct {
	SpecialistId string   `json:"specialist_id"`
	Name         string   `json:"name"`
	Tagline      string   `json:"tagline"`
	Category     string   `json:"category"`
	Gender       string   `json:"gender,omitempty"`
	WorkFormats  []string `json:"work_formats"`
	City         string   `json:"city,omitempty"`
	Experience   int      `json:"experience_years"`
	PriceMinor   int64    `json:"price_minor"`
	Verified     bool     `json:"verified"`

	// Retrieval metadata
	Similarity float64 `json:"similarity"`
	Source     string  `json:"source"` // "semantic" | "keyword"
}

// SearchParams are the filters extracted from the conversation and applied
// in the relational store after vector retrieval.
type SearchParams struct {
	Category      string `json:"category,omitempty"`
	WorkFormat    string `json:"work_format,omitempty"`
	City          string `json:"city,omitempty"`
	MinExperience int    `json:"min_experience,omitempty"`
	MaxPriceMinor int64  `json:"max_price_minor,omitempty"` // minor currency units
	VerifiedOnly  bool   `json:"verified_only,omitempty"`
}
