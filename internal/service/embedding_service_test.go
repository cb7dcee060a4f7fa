package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/contract"
	"specialist-match-be/internal/repository/memory"
	"specialist-match-be/internal/repository/specification"
	"specialist-match-be/internal/repository/unitofwork"
	"specialist-match-be/pkg/embedding"
)

// flakyEmbedder fails on one specific call and succeeds on all others.
type flakyEmbedder struct {
	calls    int
	failCall int
}

func (f *flakyEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.calls == f.failCall {
		return nil, fmt.Errorf("transport error")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

func (f *flakyEmbedder) ModelVersion() string { return "test-001" }

type listSpecialistRepo struct {
	specialists []*entity.Specialist
}

func (r *listSpecialistRepo) Create(ctx context.Context, s *entity.Specialist) error { return nil }
func (r *listSpecialistRepo) Update(ctx context.Context, s *entity.Specialist) error { return nil }
func (r *listSpecialistRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }

func (r *listSpecialistRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Specialist, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			for _, s := range r.specialists {
				if s.Id == byId.ID {
					return s, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *listSpecialistRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Specialist, error) {
	return r.specialists, nil
}

func (r *listSpecialistRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.specialists)), nil
}

type stubUow struct {
	specialists contract.SpecialistRepository
	embeddings  contract.SpecialistEmbeddingRepository
}

func (u *stubUow) Begin(ctx context.Context) error { return nil }
func (u *stubUow) Commit() error                   { return nil }
func (u *stubUow) Rollback() error                 { return nil }
func (u *stubUow) SpecialistRepository() contract.SpecialistRepository {
	return u.specialists
}
func (u *stubUow) SpecialistEmbeddingRepository() contract.SpecialistEmbeddingRepository {
	return u.embeddings
}

type stubFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func seedProfiles(n int) *listSpecialistRepo {
	repo := &listSpecialistRepo{}
	for i := 0; i < n; i++ {
		repo.specialists = append(repo.specialists, &entity.Specialist{
			Id:               uuid.New(),
			Name:             fmt.Sprintf("Specialist %d", i+1),
			Category:         entity.CategoryPsychology,
			WorkFormats:      []string{entity.FormatOnline},
			AcceptingClients: true,
			ContactQuota:     5,
		})
	}
	return repo
}

func TestReindexContinuesPastFailures(t *testing.T) {
	repo := seedProfiles(10)
	index := memory.NewSpecialistEmbeddingRepository()
	factory := &stubFactory{uow: &stubUow{specialists: repo, embeddings: index}}

	// Profile #4 hits a transport error; #5-10 must still be processed.
	svc := NewEmbeddingService(factory, &flakyEmbedder{failCall: 4}, 0, nil)

	report, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 9, report.SuccessCount)
	assert.Equal(t, 1, report.ErrorCount)

	stored, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 9, stored)
}

func TestEmbedSpecialistStoresModelVersion(t *testing.T) {
	repo := seedProfiles(1)
	index := memory.NewSpecialistEmbeddingRepository()
	factory := &stubFactory{uow: &stubUow{specialists: repo, embeddings: index}}
	svc := NewEmbeddingService(factory, &flakyEmbedder{failCall: -1}, 0, nil)

	require.NoError(t, svc.EmbedSpecialist(context.Background(), repo.specialists[0].Id))

	scored, err := index.SearchSimilarWithScore(context.Background(), contract.SimilarQuery{
		Vector: []float32{1, 0, 0},
		Limit:  1,
	})
	require.NoError(t, err)
	require.Len(t, scored, 1)
	assert.Equal(t, "test-001", scored[0].Embedding.ModelVersion)
	assert.Equal(t, repo.specialists[0].Id, scored[0].Embedding.SpecialistId)
	assert.NotEmpty(t, scored[0].Embedding.Document)
}

func TestEmbedMissingSpecialistDropsVector(t *testing.T) {
	repo := seedProfiles(1)
	index := memory.NewSpecialistEmbeddingRepository()
	factory := &stubFactory{uow: &stubUow{specialists: repo, embeddings: index}}
	svc := NewEmbeddingService(factory, &flakyEmbedder{failCall: -1}, 0, nil)

	ghost := uuid.New()
	require.NoError(t, index.Upsert(context.Background(), &entity.SpecialistEmbedding{
		SpecialistId:   ghost,
		Category:       entity.CategoryPsychology,
		EmbeddingValue: []float32{1, 0, 0},
	}))

	// The specialist behind this vector no longer exists.
	require.NoError(t, svc.EmbedSpecialist(context.Background(), ghost))

	stored, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored)
}
