package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ repository.PropertyRepository = (*PropertyRepo)(nil)

var propertyColumns = []string{"id", "user_id", "name", "created_at", "updated_at"}

// PropertyRepo propriedades sobre PostgreSQL.
type PropertyRepo struct {
	q Querier
}

// NewPropertyRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPropertyRepository(q Querier) *PropertyRepo {
	return &PropertyRepo{q: q}
}

// Create persiste una propriedade.
func (r *PropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	sql, args, err := builder().Insert("properties").
		Columns(propertyColumns...).
		Values(p.ID, p.UserID, p.Name, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert property: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// GetByID obtiene una propriedade; (nil, nil) si no existe.
func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	sql, args, err := builder().Select(propertyColumns...).From("properties").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select property: %w", err)
	}
	var p entity.Property
	if err := pgxscan.Get(ctx, r.q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}

// ListByUser propriedades del usuario en orden de alta.
func (r *PropertyRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Property, error) {
	sql, args, err := builder().Select(propertyColumns...).From("properties").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list properties: %w", err)
	}
	out := make([]*entity.Property, 0)
	if err := pgxscan.Select(ctx, r.q, &out, sql, args...); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return out, nil
}
