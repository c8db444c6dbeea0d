package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimentações sobre PostgreSQL (solo inserción).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

type movementRow struct {
	ID            string    `db:"id"`
	Seq           int64     `db:"seq"`
	LotID         string    `db:"lot_id"`
	PropertyID    string    `db:"property_id"`
	Kind          string    `db:"kind"`
	Quantity      int64     `db:"quantity"`
	Justification string    `db:"justification"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
	ProductName   string    `db:"product_name"`
	Packaging     string    `db:"packaging"`
	ExpiryDate    time.Time `db:"expiry_date"`
	PropertyName  string    `db:"property_name"`
}

func (row movementRow) toEntity() *entity.Movement {
	return &entity.Movement{
		ID:            row.ID,
		Seq:           row.Seq,
		LotID:         row.LotID,
		PropertyID:    row.PropertyID,
		Kind:          entity.MovementKind(row.Kind),
		Quantity:      row.Quantity,
		Justification: row.Justification,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt,
		ProductName:   row.ProductName,
		Packaging:     packaging.Kind(row.Packaging),
		ExpiryDate:    row.ExpiryDate,
		PropertyName:  row.PropertyName,
	}
}

func selectMovements() squirrel.SelectBuilder {
	return builder().Select(
		"m.id", "m.seq", "m.lot_id", "m.property_id", "m.kind", "m.quantity",
		"m.justification", "m.created_by", "m.created_at",
		"l.product_name", "l.packaging", "l.expiry_date", "p.name AS property_name",
	).From("movements m").
		Join("lots l ON l.id = m.lot_id").
		Join("properties p ON p.id = m.property_id")
}

// Create inserta el movimiento y devuelve el Seq asignado por la secuencia.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	sql, args, err := builder().Insert("movements").
		Columns("id", "lot_id", "property_id", "kind", "quantity", "justification", "created_by", "created_at").
		Values(m.ID, m.LotID, m.PropertyID, string(m.Kind), m.Quantity, m.Justification, m.CreatedBy, m.CreatedAt).
		Suffix("RETURNING seq").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&m.Seq); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con los datos del lote resueltos.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	sql, args, err := selectMovements().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select movement: %w", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return row.toEntity(), nil
}

// ListByLot historial del lote por Seq ascendente.
func (r *MovementRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	return r.list(ctx, selectMovements().Where(squirrel.Eq{"m.lot_id": lotID}).OrderBy("m.seq"))
}

// List movimentações según el filtro, por Seq ascendente.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	return r.list(ctx, listMovementsQuery(f))
}

func listMovementsQuery(f repository.MovementFilter) squirrel.SelectBuilder {
	q := selectMovements()
	if f.UserID != "" {
		q = q.Where(squirrel.Eq{"p.user_id": f.UserID})
	}
	if f.PropertyID != "" {
		q = q.Where(squirrel.Eq{"m.property_id": f.PropertyID})
	}
	if f.Kind != "" {
		q = q.Where(squirrel.Eq{"m.kind": string(f.Kind)})
	}
	if f.Packaging != "" {
		q = q.Where(squirrel.Eq{"l.packaging": string(f.Packaging)})
	}
	return q.OrderBy("m.seq")
}

func (r *MovementRepo) list(ctx context.Context, q squirrel.SelectBuilder) ([]*entity.Movement, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
