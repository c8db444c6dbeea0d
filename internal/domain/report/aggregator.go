package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// Kind identifica cada una de las vistas de reporte.
type Kind string

const (
	KindStock       Kind = "estoque"
	KindMovements   Kind = "movimentacoes"
	KindExpirations Kind = "vencimentos"
)

// Title título del documento exportado.
func (k Kind) Title() string {
	switch k {
	case KindMovements:
		return "Relatório de Movimentações"
	case KindExpirations:
		return "Relatório de Vencimentos"
	default:
		return "Relatório Geral de Estoque"
	}
}

// Filters predicados opcionales. El valor cero de cada campo significa "todos".
// MovementKind solo restringe filas de movimentación; las filas de lote no tienen tipo.
type Filters struct {
	PropertyID   string
	Packaging    packaging.Kind
	MovementKind entity.MovementKind
	ExpiryStatus expiry.Status
}

// Row fila literal consumida por los renderizadores (PDF, planilla, JSON).
type Row struct {
	LotID         string
	MovementID    string
	Product       string
	Packaging     packaging.Kind
	Quantity      int64
	Expiry        time.Time
	Status        expiry.Status
	MovementKind  entity.MovementKind
	Justification string
	Date          time.Time
	UnitValue     *decimal.Decimal
	TotalValue    *decimal.Decimal
}

// Group filas de una propriedade.
type Group struct {
	PropertyID string
	Property   string
	Rows       []Row
}

// Report resultado listo para renderizar.
type Report struct {
	Kind        Kind
	GeneratedAt time.Time
	Groups      []Group
}

// Title título del reporte.
func (r *Report) Title() string { return r.Kind.Title() }

// RowCount total de filas en todos los grupos.
func (r *Report) RowCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Rows)
	}
	return n
}

// Aggregate aplica los filtros y agrupa por propriedade.
// Los grupos aparecen en el orden en que su propriedade aparece por primera vez en la
// entrada (lotes primero, luego movimentações) y las filas conservan el orden de origen.
func Aggregate(lots []*entity.Lot, movements []*entity.Movement, f Filters, asOf time.Time) []Group {
	var groups []Group
	pos := make(map[string]int)

	add := func(propertyID, propertyName string, row Row) {
		i, ok := pos[propertyID]
		if !ok {
			i = len(groups)
			pos[propertyID] = i
			groups = append(groups, Group{PropertyID: propertyID, Property: propertyName})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}

	for _, l := range lots {
		if l == nil {
			continue
		}
		row := lotRow(l, asOf)
		if !f.matchLot(l, row.Status) {
			continue
		}
		add(l.PropertyID, l.PropertyName, row)
	}
	for _, m := range movements {
		if m == nil {
			continue
		}
		row := movementRow(m, asOf)
		if !f.matchMovement(m, row.Status) {
			continue
		}
		add(m.PropertyID, m.PropertyName, row)
	}
	return groups
}

func (f Filters) matchLot(l *entity.Lot, st expiry.Status) bool {
	if f.PropertyID != "" && l.PropertyID != f.PropertyID {
		return false
	}
	if f.Packaging != "" && l.Packaging != f.Packaging {
		return false
	}
	if f.ExpiryStatus != "" && st != f.ExpiryStatus {
		return false
	}
	return true
}

func (f Filters) matchMovement(m *entity.Movement, st expiry.Status) bool {
	if f.PropertyID != "" && m.PropertyID != f.PropertyID {
		return false
	}
	if f.Packaging != "" && m.Packaging != f.Packaging {
		return false
	}
	if f.MovementKind != "" && m.Kind != f.MovementKind {
		return false
	}
	if f.ExpiryStatus != "" && st != f.ExpiryStatus {
		return false
	}
	return true
}

func lotRow(l *entity.Lot, asOf time.Time) Row {
	row := Row{
		LotID:     l.ID,
		Product:   l.ProductName,
		Packaging: l.Packaging,
		Quantity:  l.QuantityOnHand,
		Expiry:    l.ExpiryDate,
		Status:    expiry.StatusOf(l.ExpiryDate, asOf),
		Date:      l.CreatedAt,
	}
	if l.UnitValue != nil {
		unit := *l.UnitValue
		total := unit.Mul(decimal.NewFromInt(l.QuantityOnHand))
		row.UnitValue = &unit
		row.TotalValue = &total
	}
	return row
}

func movementRow(m *entity.Movement, asOf time.Time) Row {
	row := Row{
		LotID:         m.LotID,
		MovementID:    m.ID,
		Product:       m.ProductName,
		Packaging:     m.Packaging,
		Quantity:      m.Quantity,
		Expiry:        m.ExpiryDate,
		MovementKind:  m.Kind,
		Justification: m.Justification,
		Date:          m.CreatedAt,
	}
	if !m.ExpiryDate.IsZero() {
		row.Status = expiry.StatusOf(m.ExpiryDate, asOf)
	}
	return row
}
