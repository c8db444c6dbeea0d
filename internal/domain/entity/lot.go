package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// LotKey identifica un lote: mismo producto, propriedade, embalagem y validade.
// Lotes con claves distintas nunca se fusionan.
type LotKey struct {
	PropertyID  string
	ProductName string
	Packaging   packaging.Kind
	Expiry      time.Time
}

// Lot es la unidad de seguimiento de estoque.
// QuantityOnHand es derivado de los movimientos; los repositorios lo rellenan al leer
// y nunca lo persisten.
type Lot struct {
	ID           string // idProduto
	StockEntryID string // idEstoque: movimiento ENTRADA que abrió el lote
	PropertyID   string
	PropertyName string // solo lectura, resuelto en consultas
	ProductName  string
	Packaging    packaging.Kind
	ExpiryDate   time.Time
	UnitValue    *decimal.Decimal
	Active       bool

	QuantityOnHand int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key devuelve la clave natural del lote.
func (l *Lot) Key() LotKey {
	return LotKey{
		PropertyID:  l.PropertyID,
		ProductName: l.ProductName,
		Packaging:   l.Packaging,
		Expiry:      l.ExpiryDate,
	}
}

// String se usa como clave de bloqueo para la clave natural.
func (k LotKey) String() string {
	return strings.Join([]string{
		k.PropertyID, k.ProductName, string(k.Packaging), k.Expiry.Format("2006-01-02"),
	}, "|")
}
