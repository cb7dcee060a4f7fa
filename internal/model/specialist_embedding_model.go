package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SpecialistEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SpecialistId   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"` // one vector per specialist
	Category       string          `gorm:"type:varchar(64);not null;index"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text width
	ModelVersion   string          `gorm:"type:varchar(128)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (SpecialistEmbedding) TableName() string {
	return "specialist_embeddings"
}
