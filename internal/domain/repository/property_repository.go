package repository

import (
	"context"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
)

// PropertyRepository define el puerto de persistencia para Property (DIP).
type PropertyRepository interface {
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Property, error)
}
