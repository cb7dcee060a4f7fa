package implementation

import (
	"context"
	"errors"
	"fmt"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/mapper"
	"specialist-match-be/internal/model"
	"specialist-match-be/internal/repository/contract"
	"specialist-match-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpecialistRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SpecialistMapper
}

func NewSpecialistRepository(db *gorm.DB) contract.SpecialistRepository {
	return &SpecialistRepositoryImpl{
		db:     db,
		mapper: mapper.NewSpecialistMapper(),
	}
}

func (r *SpecialistRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SpecialistRepositoryImpl) Create(ctx context.Context, specialist *entity.Specialist) error {
	// Custom fields must agree with the declared category before anything
	// is written; downstream consumers rely on the union being closed.
	if err := specialist.Fields.Validate(specialist.Category); err != nil {
		return fmt.Errorf("invalid category fields: %w", err)
	}
	m := r.mapper.ToModel(specialist)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*specialist = *r.mapper.ToEntity(m)
	return nil
}

func (r *SpecialistRepositoryImpl) Update(ctx context.Context, specialist *entity.Specialist) error {
	if err := specialist.Fields.Validate(specialist.Category); err != nil {
		return fmt.Errorf("invalid category fields: %w", err)
	}
	m := r.mapper.ToModel(specialist)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*specialist = *r.mapper.ToEntity(m)
	return nil
}

func (r *SpecialistRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Specialist{}, id).Error
}

func (r *SpecialistRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Specialist, error) {
	var m model.Specialist
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SpecialistRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Specialist, error) {
	var models []*model.Specialist
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SpecialistRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Specialist{}).Count(&count).Error
	return count, err
}
