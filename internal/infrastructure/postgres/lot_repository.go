package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// onHandExpr disponible derivado del ledger: Σ ENTRADA − Σ SAIDA, nunca negativo.
const onHandExpr = `GREATEST(COALESCE((
	SELECT SUM(CASE m.kind WHEN 'ENTRADA' THEN m.quantity WHEN 'SAIDA' THEN -m.quantity ELSE 0 END)
	FROM movements m WHERE m.lot_id = l.id), 0), 0)::BIGINT`

// LotRepo lotes de estoque sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

type lotRow struct {
	ID           string           `db:"id"`
	StockEntryID string           `db:"stock_entry_id"`
	PropertyID   string           `db:"property_id"`
	PropertyName string           `db:"property_name"`
	ProductName  string           `db:"product_name"`
	Packaging    string           `db:"packaging"`
	ExpiryDate   time.Time        `db:"expiry_date"`
	UnitValue    *decimal.Decimal `db:"unit_value"`
	Active       bool             `db:"active"`
	OnHand       int64            `db:"on_hand"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
}

func (row lotRow) toEntity() *entity.Lot {
	return &entity.Lot{
		ID:             row.ID,
		StockEntryID:   row.StockEntryID,
		PropertyID:     row.PropertyID,
		PropertyName:   row.PropertyName,
		ProductName:    row.ProductName,
		Packaging:      packaging.Kind(row.Packaging),
		ExpiryDate:     row.ExpiryDate,
		UnitValue:      row.UnitValue,
		Active:         row.Active,
		QuantityOnHand: row.OnHand,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func selectLots() squirrel.SelectBuilder {
	return builder().Select(
		"l.id", "l.stock_entry_id", "l.property_id", "p.name AS property_name",
		"l.product_name", "l.packaging", "l.expiry_date", "l.unit_value", "l.active",
		onHandExpr+" AS on_hand", "l.created_at", "l.updated_at",
	).From("lots l").Join("properties p ON p.id = l.property_id")
}

// Create persiste un lote. Choque con otro lote activo de la misma clave: ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	sql, args, err := builder().Insert("lots").
		Columns("id", "stock_entry_id", "property_id", "product_name", "packaging",
			"expiry_date", "unit_value", "active", "created_at", "updated_at").
		Values(lot.ID, lot.StockEntryID, lot.PropertyID, lot.ProductName, string(lot.Packaging),
			lot.ExpiryDate, lot.UnitValue, lot.Active, lot.CreatedAt, lot.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert lot: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		if isNumericOutOfRange(err) {
			return fmt.Errorf("insert lot: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote con disponible y propriedade resueltos.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	return r.getOne(ctx, selectLots().Where(squirrel.Eq{"l.id": id}))
}

// GetForUpdate bloquea la fila del lote y luego la relee con el disponible vigente.
func (r *LotRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lot, error) {
	var locked string
	err := r.q.QueryRow(ctx, `SELECT id FROM lots WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock lot: %w", err)
	}
	return r.GetByID(ctx, id)
}

// FindActiveByKey busca el lote activo con la clave natural.
func (r *LotRepo) FindActiveByKey(ctx context.Context, key entity.LotKey) (*entity.Lot, error) {
	return r.getOne(ctx, selectLots().Where(squirrel.Eq{
		"l.property_id":  key.PropertyID,
		"l.product_name": key.ProductName,
		"l.packaging":    string(key.Packaging),
		"l.expiry_date":  key.Expiry,
		"l.active":       true,
	}))
}

// Update reescribe campos descriptivos y el estado activo. La propriedade no cambia.
func (r *LotRepo) Update(ctx context.Context, lot *entity.Lot) error {
	sql, args, err := builder().Update("lots").
		Set("product_name", lot.ProductName).
		Set("packaging", string(lot.Packaging)).
		Set("expiry_date", lot.ExpiryDate).
		Set("unit_value", lot.UnitValue).
		Set("active", lot.Active).
		Set("updated_at", lot.UpdatedAt).
		Where(squirrel.Eq{"id": lot.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update lot: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isNumericOutOfRange(err) {
			return fmt.Errorf("update lot: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lotes en orden de alta según el filtro.
func (r *LotRepo) List(ctx context.Context, f repository.LotFilter) ([]*entity.Lot, error) {
	sql, args, err := listLotsQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lots: %w", err)
	}
	var rows []lotRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	out := make([]*entity.Lot, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func listLotsQuery(f repository.LotFilter) squirrel.SelectBuilder {
	q := selectLots()
	if f.UserID != "" {
		q = q.Where(squirrel.Eq{"p.user_id": f.UserID})
	}
	if f.PropertyID != "" {
		q = q.Where(squirrel.Eq{"l.property_id": f.PropertyID})
	}
	if f.Packaging != "" {
		q = q.Where(squirrel.Eq{"l.packaging": string(f.Packaging)})
	}
	if f.ActiveOnly {
		q = q.Where(squirrel.Eq{"l.active": true})
	}
	if f.ExpiresBefore != nil {
		q = q.Where(squirrel.Lt{"l.expiry_date": *f.ExpiresBefore})
	}
	if f.InStockOnly {
		q = q.Where(onHandExpr + " > 0")
	}
	return q.OrderBy("l.created_at", "l.id")
}

func (r *LotRepo) getOne(ctx context.Context, q squirrel.SelectBuilder) (*entity.Lot, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lot: %w", err)
	}
	var row lotRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return row.toEntity(), nil
}
