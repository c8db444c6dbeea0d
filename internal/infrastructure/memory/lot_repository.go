package memory

import (
	"context"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepository)(nil)

// LotRepository implementa repository.LotRepository en memoria.
type LotRepository struct {
	conn
}

// Create inserta un lote. La unicidad de la clave activa se verifica al confirmar.
func (r *LotRepository) Create(_ context.Context, lot *entity.Lot) error {
	return r.write(func(v *view) error {
		if v.lot(lot.ID) != nil {
			return domain.ErrDuplicate
		}
		v.putLot(lot)
		return nil
	})
}

// GetByID obtiene un lote con disponible y nombre de propriedade resueltos.
func (r *LotRepository) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	var out *entity.Lot
	r.read(func(v *view) {
		if l := v.lot(id); l != nil {
			out = v.fillLot(l)
		}
	})
	return out, nil
}

// GetForUpdate dentro de Run el lock del store ya es exclusivo.
func (r *LotRepository) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, id)
}

// FindActiveByKey busca el lote activo con la clave natural.
func (r *LotRepository) FindActiveByKey(_ context.Context, key entity.LotKey) (*entity.Lot, error) {
	var out *entity.Lot
	want := key.String()
	r.read(func(v *view) {
		for _, id := range v.lotIDs() {
			l := v.lot(id)
			if l.Active && l.Key().String() == want {
				out = v.fillLot(l)
				return
			}
		}
	})
	return out, nil
}

// Update reescribe el lote. La propriedade nunca cambia.
func (r *LotRepository) Update(_ context.Context, lot *entity.Lot) error {
	return r.write(func(v *view) error {
		cur := v.lot(lot.ID)
		if cur == nil {
			return domain.ErrNotFound
		}
		upd := *lot
		upd.PropertyID = cur.PropertyID
		upd.StockEntryID = cur.StockEntryID
		upd.CreatedAt = cur.CreatedAt
		v.putLot(&upd)
		return nil
	})
}

// List lotes en orden de creación según el filtro.
func (r *LotRepository) List(_ context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	out := make([]*entity.Lot, 0)
	r.read(func(v *view) {
		for _, id := range v.lotIDs() {
			l := v.lot(id)
			if f.ActiveOnly && !l.Active {
				continue
			}
			if f.PropertyID != "" && l.PropertyID != f.PropertyID {
				continue
			}
			if f.Packaging != "" && l.Packaging != f.Packaging {
				continue
			}
			if f.UserID != "" {
				p := v.s.properties[l.PropertyID]
				if p == nil || p.UserID != f.UserID {
					continue
				}
			}
			if f.ExpiresBefore != nil && !expiry.DateOf(l.ExpiryDate).Before(*f.ExpiresBefore) {
				continue
			}
			filled := v.fillLot(l)
			if f.InStockOnly && filled.QuantityOnHand <= 0 {
				continue
			}
			out = append(out, filled)
		}
	})
	return out, nil
}
