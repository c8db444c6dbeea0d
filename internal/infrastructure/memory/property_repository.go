package memory

import (
	"context"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ repository.PropertyRepository = (*PropertyRepository)(nil)

// PropertyRepository implementa repository.PropertyRepository en memoria.
type PropertyRepository struct {
	s *Store
}

// Create inserta una propriedade.
func (r *PropertyRepository) Create(_ context.Context, p *entity.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.properties[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.s.properties[p.ID] = &cp
	r.s.propOrder = append(r.s.propOrder, p.ID)
	return nil
}

// GetByID obtiene una propriedade.
func (r *PropertyRepository) GetByID(_ context.Context, id string) (*entity.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.properties[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// ListByUser propriedades del usuario en orden de creación.
func (r *PropertyRepository) ListByUser(_ context.Context, userID string) ([]*entity.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Property, 0)
	for _, id := range r.s.propOrder {
		p := r.s.properties[id]
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
