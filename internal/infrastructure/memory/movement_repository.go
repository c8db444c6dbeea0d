package memory

import (
	"context"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository implementa repository.MovementRepository en memoria (solo inserción).
type MovementRepository struct {
	conn
}

// Create agrega el movimiento y asigna Seq.
func (r *MovementRepository) Create(_ context.Context, m *entity.Movement) error {
	return r.write(func(v *view) error {
		if v.movement(m.ID) != nil {
			return domain.ErrDuplicate
		}
		if v.lot(m.LotID) == nil {
			return domain.ErrNotFound
		}
		v.addMovement(m)
		return nil
	})
}

// GetByID obtiene un movimiento.
func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.read(func(v *view) {
		if m := v.movement(id); m != nil {
			out = v.fillMovement(m)
		}
	})
	return out, nil
}

// ListByLot historial del lote por Seq ascendente.
func (r *MovementRepository) ListByLot(_ context.Context, lotID string) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	r.read(func(v *view) {
		for _, m := range v.events(lotID) {
			out = append(out, v.fillMovement(m))
		}
	})
	return out, nil
}

// List movimentações filtradas, por Seq ascendente.
func (r *MovementRepository) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	out := make([]*entity.Movement, 0)
	r.read(func(v *view) {
		for _, m := range v.allMovements() {
			if f.PropertyID != "" && m.PropertyID != f.PropertyID {
				continue
			}
			if f.Kind != "" && m.Kind != f.Kind {
				continue
			}
			if f.UserID != "" {
				p := v.s.properties[m.PropertyID]
				if p == nil || p.UserID != f.UserID {
					continue
				}
			}
			filled := v.fillMovement(m)
			if f.Packaging != "" && filled.Packaging != f.Packaging {
				continue
			}
			out = append(out, filled)
		}
	})
	return out, nil
}
