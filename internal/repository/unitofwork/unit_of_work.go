package unitofwork

import (
	"context"

	"specialist-match-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SpecialistRepository() contract.SpecialistRepository
	SpecialistEmbeddingRepository() contract.SpecialistEmbeddingRepository
}
