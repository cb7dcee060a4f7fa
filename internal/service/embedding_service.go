package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"specialist-match-be/internal/dto"
	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/specification"
	"specialist-match-be/internal/repository/unitofwork"
	"specialist-match-be/pkg/embedding"
	"specialist-match-be/pkg/profiletext"
)

type IEmbeddingService interface {
	// EmbedSpecialist regenerates the profile embedding for one specialist.
	EmbedSpecialist(ctx context.Context, specialistId uuid.UUID) error
	// Reindex regenerates embeddings for every specialist, sequentially
	// with a fixed delay between provider calls.
	Reindex(ctx context.Context) (*dto.ReindexReport, error)
}

type embeddingService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	textBuilder       *profiletext.Builder
	reindexDelay      time.Duration
	logger            *log.Logger
}

func NewEmbeddingService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	reindexDelay time.Duration,
	logger *log.Logger,
) IEmbeddingService {
	return &embeddingService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		textBuilder:       profiletext.NewBuilder(),
		reindexDelay:      reindexDelay,
		logger:            logger,
	}
}

func (s *embeddingService) EmbedSpecialist(ctx context.Context, specialistId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specialist, err := uow.SpecialistRepository().FindOne(ctx, specification.ByID{ID: specialistId})
	if err != nil {
		return fmt.Errorf("failed to load specialist %s: %w", specialistId, err)
	}
	if specialist == nil || specialist.IsDeleted {
		// Profile gone since the message was queued; drop its vector too.
		return uow.SpecialistEmbeddingRepository().DeleteBySpecialistId(ctx, specialistId)
	}

	document := s.textBuilder.Build(specialist)
	res, err := s.embeddingProvider.Generate(document, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embedding generation failed for %s: %w", specialistId, err)
	}

	now := time.Now()
	return uow.SpecialistEmbeddingRepository().Upsert(ctx, &entity.SpecialistEmbedding{
		Id:             uuid.New(),
		SpecialistId:   specialist.Id,
		Category:       specialist.Category,
		Document:       document,
		EmbeddingValue: res.Embedding.Values,
		ModelVersion:   s.embeddingProvider.ModelVersion(),
		CreatedAt:      now,
		UpdatedAt:      &now,
	})
}

// Reindex walks all specialists sequentially. Individual failures are
// tallied and skipped, never abort the batch; the provider rate limit is
// respected with a fixed inter-call delay.
func (s *embeddingService) Reindex(ctx context.Context) (*dto.ReindexReport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specialists, err := uow.SpecialistRepository().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialists: %w", err)
	}

	report := &dto.ReindexReport{Total: len(specialists)}
	for i, specialist := range specialists {
		if i > 0 && s.reindexDelay > 0 {
			time.Sleep(s.reindexDelay)
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := s.EmbedSpecialist(ctx, specialist.Id); err != nil {
			report.ErrorCount++
			s.logf("[ERROR] Reindex %d/%d failed for %s: %v", i+1, report.Total, specialist.Id, err)
			continue
		}
		report.SuccessCount++
		s.logf("[INFO] Reindex %d/%d done for %s", i+1, report.Total, specialist.Id)
	}

	return report, nil
}

func (s *embeddingService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
