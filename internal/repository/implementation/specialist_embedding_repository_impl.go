package implementation

import (
	"context"
	"errors"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/mapper"
	"specialist-match-be/internal/model"
	"specialist-match-be/internal/repository/contract"
	"specialist-match-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpecialistEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SpecialistEmbeddingMapper
}

func NewSpecialistEmbeddingRepository(db *gorm.DB) contract.SpecialistEmbeddingRepository {
	return &SpecialistEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewSpecialistEmbeddingMapper(),
	}
}

func (r *SpecialistEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SpecialistEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.SpecialistEmbedding) error {
	m := r.mapper.ToModel(embedding)
	// One vector per specialist: conflict on specialist_id replaces the
	// document, vector and model version in place.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "specialist_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category", "document", "embedding_value", "model_version", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *SpecialistEmbeddingRepositoryImpl) DeleteBySpecialistId(ctx context.Context, specialistId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("specialist_id = ?", specialistId).Delete(&model.SpecialistEmbedding{}).Error
}

func (r *SpecialistEmbeddingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SpecialistEmbedding, error) {
	var m model.SpecialistEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SpecialistEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.SpecialistEmbedding{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore runs a category-filtered nearest-neighbor scan.
// Cosine distance in pgvector is 1 - cosine_similarity, so we select
// 1 - (embedding_value <=> query_vector) as the similarity score.
func (r *SpecialistEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, query contract.SimilarQuery) ([]*contract.ScoredSpecialistEmbedding, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	type result struct {
		model.SpecialistEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(query.Vector)

	q := r.db.WithContext(ctx).
		Table("specialist_embeddings").
		Select("specialist_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN specialists ON specialists.id = specialist_embeddings.specialist_id").
		Where("specialist_embeddings.deleted_at IS NULL").
		Where("specialists.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, query.Threshold)

	if query.Category != "" {
		q = q.Where("specialist_embeddings.category = ?", query.Category)
	}
	if len(query.ExcludeIds) > 0 {
		q = q.Where("specialist_embeddings.specialist_id NOT IN ?", query.ExcludeIds)
	}

	err := q.Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSpecialistEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSpecialistEmbedding{
			Embedding:  r.mapper.ToEntity(&res.SpecialistEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
