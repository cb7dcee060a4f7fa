package entity

import (
	"time"

	"github.com/google/uuid"
)

type SpecialistEmbedding struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SpecialistId   uuid.UUID `gorm:"type:uuid;index"`
	Category       string
	Document       string
	EmbeddingValue []float32
	ModelVersion   string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
