package memory

import (
	"context"
	"sort"
	"sync"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/contract"
	"specialist-match-be/internal/repository/specification"
	"specialist-match-be/pkg/embedding"

	"github.com/google/uuid"
)

// SpecialistEmbeddingRepository is a brute-force in-memory vector index
// satisfying the embedding repository contract. It backs unit tests and
// small single-node deployments that run without Postgres.
type SpecialistEmbeddingRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*entity.SpecialistEmbedding // keyed by SpecialistId
}

var _ contract.SpecialistEmbeddingRepository = (*SpecialistEmbeddingRepository)(nil)

func NewSpecialistEmbeddingRepository() *SpecialistEmbeddingRepository {
	return &SpecialistEmbeddingRepository{
		records: make(map[uuid.UUID]*entity.SpecialistEmbedding),
	}
}

func (r *SpecialistEmbeddingRepository) Upsert(ctx context.Context, e *entity.SpecialistEmbedding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.Id == uuid.Nil {
		e.Id = uuid.New()
	}
	cp := *e
	r.records[e.SpecialistId] = &cp
	return nil
}

func (r *SpecialistEmbeddingRepository) DeleteBySpecialistId(ctx context.Context, specialistId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, specialistId)
	return nil
}

func (r *SpecialistEmbeddingRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SpecialistEmbedding, error) {
	// Specifications are SQL-bound; the memory index only supports direct
	// lookups, which is all the pipeline needs from it.
	return nil, nil
}

func (r *SpecialistEmbeddingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

func (r *SpecialistEmbeddingRepository) SearchSimilarWithScore(ctx context.Context, query contract.SimilarQuery) ([]*contract.ScoredSpecialistEmbedding, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	excluded := make(map[uuid.UUID]bool, len(query.ExcludeIds))
	for _, id := range query.ExcludeIds {
		excluded[id] = true
	}

	r.mu.RLock()
	var scored []*contract.ScoredSpecialistEmbedding
	for _, rec := range r.records {
		if rec.IsDeleted || excluded[rec.SpecialistId] {
			continue
		}
		if query.Category != "" && rec.Category != query.Category {
			continue
		}
		sim := embedding.Cosine(query.Vector, rec.EmbeddingValue)
		if sim < query.Threshold {
			continue
		}
		cp := *rec
		scored = append(scored, &contract.ScoredSpecialistEmbedding{
			Embedding:  &cp,
			Similarity: sim,
		})
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}
