package contract

import (
	"context"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSpecialistEmbedding wraps SpecialistEmbedding with its similarity score
type ScoredSpecialistEmbedding struct {
	Embedding  *entity.SpecialistEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// SimilarQuery describes one nearest-neighbor scan.
type SimilarQuery struct {
	Vector     []float32
	Limit      int
	ExcludeIds []uuid.UUID
	// Category restricts the scan to one category when non-empty. A record
	// stored under a different category is never returned, regardless of
	// vector proximity.
	Category  string
	Threshold float64
}

type SpecialistEmbeddingRepository interface {
	// Upsert replaces the vector for a specialist, keyed by SpecialistId.
	Upsert(ctx context.Context, embedding *entity.SpecialistEmbedding) error
	DeleteBySpecialistId(ctx context.Context, specialistId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SpecialistEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings ordered by cosine similarity.
	SearchSimilarWithScore(ctx context.Context, query SimilarQuery) ([]*ScoredSpecialistEmbedding, error)
}
