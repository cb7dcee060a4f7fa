package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"specialist-match-be/internal/dto"
	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/pkg/logger"
	"specialist-match-be/internal/repository/specification"
	"specialist-match-be/internal/repository/unitofwork"
	"specialist-match-be/pkg/events"
	pktNats "specialist-match-be/pkg/nats"
)

type ISpecialistService interface {
	Create(ctx context.Context, req *dto.CreateSpecialistRequest) (*dto.CreateSpecialistResponse, error)
	Update(ctx context.Context, req *dto.UpdateSpecialistRequest) (*dto.UpdateSpecialistResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowSpecialistResponse, error)
}

type specialistService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewSpecialistService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) ISpecialistService {
	return &specialistService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           sysLogger,
	}
}

func (s *specialistService) Create(ctx context.Context, req *dto.CreateSpecialistRequest) (*dto.CreateSpecialistResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specialist := entity.Specialist{
		Id:               uuid.New(),
		Name:             req.Name,
		Tagline:          req.Tagline,
		Description:      req.Description,
		Category:         req.Category,
		Specializations:  req.Specializations,
		WorkFormats:      req.WorkFormats,
		City:             req.City,
		ExperienceYears:  req.ExperienceYears,
		Gender:           req.Gender,
		PriceMinor:       req.PriceMinor,
		AcceptingClients: req.AcceptingClients,
		ContactQuota:     req.ContactQuota,
		Fields:           req.Fields,
		CreatedAt:        time.Now(),
	}

	err := uow.SpecialistRepository().Create(ctx, &specialist)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleEmbedding(ctx, specialist.Id); err != nil {
		return nil, err
	}
	s.publishProfileEvent(ctx, events.NewSpecialistProfileUpdated(specialist.Id.String()))

	return &dto.CreateSpecialistResponse{
		Id: specialist.Id,
	}, nil
}

func (s *specialistService) Update(ctx context.Context, req *dto.UpdateSpecialistRequest) (*dto.UpdateSpecialistResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specialist, err := uow.SpecialistRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if specialist == nil {
		return nil, nil // Not found
	}

	specialist.Name = req.Name
	specialist.Tagline = req.Tagline
	specialist.Description = req.Description
	specialist.Category = req.Category
	specialist.Specializations = req.Specializations
	specialist.WorkFormats = req.WorkFormats
	specialist.City = req.City
	specialist.ExperienceYears = req.ExperienceYears
	specialist.Gender = req.Gender
	specialist.PriceMinor = req.PriceMinor
	specialist.AcceptingClients = req.AcceptingClients
	specialist.ContactQuota = req.ContactQuota
	specialist.Fields = req.Fields

	if err := uow.SpecialistRepository().Update(ctx, specialist); err != nil {
		return nil, err
	}

	// Content-relevant fields may have changed; regenerate the embedding.
	if err := s.scheduleEmbedding(ctx, specialist.Id); err != nil {
		return nil, err
	}
	s.publishProfileEvent(ctx, events.NewSpecialistProfileUpdated(specialist.Id.String()))

	return &dto.UpdateSpecialistResponse{
		Id: specialist.Id,
	}, nil
}

func (s *specialistService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SpecialistRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.SpecialistEmbeddingRepository().DeleteBySpecialistId(ctx, id); err != nil {
		return err
	}
	s.publishProfileEvent(ctx, events.NewSpecialistProfileDeleted(id.String()))
	return nil
}

func (s *specialistService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowSpecialistResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specialist, err := uow.SpecialistRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if specialist == nil {
		return nil, nil // Not found
	}

	return &dto.ShowSpecialistResponse{
		Id:               specialist.Id,
		Name:             specialist.Name,
		Tagline:          specialist.Tagline,
		Description:      specialist.Description,
		Category:         specialist.Category,
		Specializations:  specialist.Specializations,
		WorkFormats:      specialist.WorkFormats,
		City:             specialist.City,
		ExperienceYears:  specialist.ExperienceYears,
		Gender:           specialist.Gender,
		PriceMinor:       specialist.PriceMinor,
		Verified:         specialist.Verified,
		AcceptingClients: specialist.AcceptingClients,
		ContactQuota:     specialist.ContactQuota,
		Fields:           specialist.Fields,
		CreatedAt:        specialist.CreatedAt,
		UpdatedAt:        specialist.UpdatedAt,
	}, nil
}

func (s *specialistService) scheduleEmbedding(ctx context.Context, specialistId uuid.UUID) error {
	msgPayload := dto.PublishEmbedSpecialistMessage{
		SpecialistId: specialistId,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, msgJson)
}

// publishProfileEvent notifies external consumers. Best effort: the profile
// write already succeeded, so a bus failure is logged, not returned.
func (s *specialistService) publishProfileEvent(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil && s.logger != nil {
		s.logger.Warn("specialist_service", "failed to publish profile event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
