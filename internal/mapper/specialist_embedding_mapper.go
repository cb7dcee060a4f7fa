package mapper

import (
	"time"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SpecialistEmbeddingMapper struct{}

func NewSpecialistEmbeddingMapper() *SpecialistEmbeddingMapper {
	return &SpecialistEmbeddingMapper{}
}

func (m *SpecialistEmbeddingMapper) ToEntity(e *model.SpecialistEmbedding) *entity.SpecialistEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.SpecialistEmbedding{
		Id:             e.Id,
		SpecialistId:   e.SpecialistId,
		Category:       e.Category,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ModelVersion:   e.ModelVersion,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *SpecialistEmbeddingMapper) ToModel(e *entity.SpecialistEmbedding) *model.SpecialistEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.SpecialistEmbedding{
		Id:             e.Id,
		SpecialistId:   e.SpecialistId,
		Category:       e.Category,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ModelVersion:   e.ModelVersion,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}
