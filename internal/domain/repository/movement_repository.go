package repository

import (
	"context"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// MovementFilter criterios del reporte de movimentações.
type MovementFilter struct {
	UserID     string
	PropertyID string
	Kind       entity.MovementKind
	Packaging  packaging.Kind
}

// MovementRepository define el puerto de persistencia del ledger (solo inserción).
type MovementRepository interface {
	// Create asigna Seq según el orden de aceptación.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListByLot devuelve el historial en orden cronológico (Seq ascendente).
	ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
