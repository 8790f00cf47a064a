package identity

import (
	"context"

	"github.com/alphamind/alphamind-backend/internal/domain/shared"
)

// Repository - контракт хранилища учётных записей.
type Repository interface {
	// Create сохраняет новую учётную запись. Занятый email -
	// shared.ErrEmailTaken (уникальность обеспечивает хранилище).
	Create(ctx context.Context, a *Account) error

	// GetByID возвращает учётную запись или shared.ErrLearnerNotFound.
	GetByID(ctx context.Context, id shared.LearnerID) (*Account, error)

	// GetByEmail возвращает учётную запись по нормализованному email
	// или shared.ErrLearnerNotFound.
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
