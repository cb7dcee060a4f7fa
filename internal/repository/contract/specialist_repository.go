package contract

import (
	"context"

	"specialist-match-be/internal/entity"
	"specialist-match-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SpecialistRepository interface {
	Create(ctx context.Context, specialist *entity.Specialist) error
	Update(ctx context.Context, specialist *entity.Specialist) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Specialist, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Specialist, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
