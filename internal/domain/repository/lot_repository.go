package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// LotFilter criterios de listado. Campos vacíos no filtran.
type LotFilter struct {
	UserID     string
	PropertyID string
	Packaging  packaging.Kind
	ActiveOnly bool
	// ExpiresBefore restringe a validades estrictamente anteriores (ventana de alertas).
	ExpiresBefore *time.Time
	// InStockOnly excluye lotes con disponible cero.
	InStockOnly bool
}

// LotRepository define el puerto para lotes de estoque.
// Las lecturas rellenan QuantityOnHand y PropertyName; (nil, nil) cuando no existe.
// Usado dentro de transacciones para garantizar consistencia.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	// GetForUpdate bloquea el lote hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Lot, error)
	// FindActiveByKey busca el lote activo con la clave natural; los lotes inertes nunca coinciden.
	FindActiveByKey(ctx context.Context, key entity.LotKey) (*entity.Lot, error)
	// Update reescribe campos descriptivos y el estado activo. Devuelve ErrDuplicate si
	// la nueva clave choca con otro lote activo.
	Update(ctx context.Context, lot *entity.Lot) error
	List(ctx context.Context, filter LotFilter) ([]*entity.Lot, error)
}
