package expiry

import (
	"time"

	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// Status situación de la validade respecto a una fecha de referencia.
type Status string

const (
	Vencido Status = "VENCIDO"
	AVencer Status = "A_VENCER"
)

// ParseStatus acepta "VENCIDO", "A_VENCER" y "A VENCER" (rótulo del selector).
func ParseStatus(s string) (Status, bool) {
	switch s {
	case string(Vencido):
		return Vencido, true
	case string(AVencer), "A VENCER":
		return AVencer, true
	}
	return "", false
}

// Label rótulo de exhibición.
func (s Status) Label() string {
	if s == AVencer {
		return "A VENCER"
	}
	return string(s)
}

// IsExpired compara solo fechas: vencido si y solo si expiry < asOf.
// Un lote que vence hoy todavía no está vencido.
func IsExpired(expiry, asOf time.Time) bool {
	return DateOf(expiry).Before(DateOf(asOf))
}

// StatusOf clasifica una validade.
func StatusOf(expiry, asOf time.Time) Status {
	if IsExpired(expiry, asOf) {
		return Vencido
	}
	return AVencer
}

// PropertyQuantity cantidad de un grupo en una propriedade.
type PropertyQuantity struct {
	PropertyID   string
	PropertyName string
	Quantity     int64
}

// Classification agrupa los lotes que comparten producto, embalagem y validade.
type Classification struct {
	LotID       string // primer lote del grupo
	LotIDs      []string
	ProductName string
	Packaging   packaging.Kind
	Expiry      time.Time
	Vencido     bool
	Breakdown   []PropertyQuantity
	Total       int64
}

// Status devuelve VENCIDO / A_VENCER según el flag calculado.
func (c Classification) Status() Status {
	if c.Vencido {
		return Vencido
	}
	return AVencer
}

// HasProperty indica si el grupo tiene cantidad en la propriedade.
func (c Classification) HasProperty(propertyID string) bool {
	for _, b := range c.Breakdown {
		if b.PropertyID == propertyID {
			return true
		}
	}
	return false
}

type groupKey struct {
	product   string
	packaging packaging.Kind
	expiry    string
}

// Classify calcula vencido / a vencer y el desglose por propriedade.
// El filtro de ventana (qué lotes entran) es responsabilidad del llamador;
// cada grupo devuelto cuenta como una alerta. Los grupos y el desglose conservan
// el orden de primera aparición.
func Classify(lots []*entity.Lot, asOf time.Time) []Classification {
	var out []Classification
	pos := make(map[groupKey]int)

	for _, lot := range lots {
		if lot == nil {
			continue
		}
		k := groupKey{product: lot.ProductName, packaging: lot.Packaging, expiry: Format(lot.ExpiryDate)}
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, Classification{
				LotID:       lot.ID,
				ProductName: lot.ProductName,
				Packaging:   lot.Packaging,
				Expiry:      lot.ExpiryDate,
				Vencido:     IsExpired(lot.ExpiryDate, asOf),
			})
		}
		c := &out[i]
		c.LotIDs = append(c.LotIDs, lot.ID)
		c.Total += lot.QuantityOnHand
		c.Breakdown = addQuantity(c.Breakdown, lot)
	}
	return out
}

func addQuantity(b []PropertyQuantity, lot *entity.Lot) []PropertyQuantity {
	for i := range b {
		if b[i].PropertyID == lot.PropertyID {
			b[i].Quantity += lot.QuantityOnHand
			return b
		}
	}
	return append(b, PropertyQuantity{
		PropertyID:   lot.PropertyID,
		PropertyName: lot.PropertyName,
		Quantity:     lot.QuantityOnHand,
	})
}

// Summary conteo para el aviso de alertas.
type Summary struct {
	Vencidos int
	AVencer  int
	Total    int
}

// Summarize cuenta grupos vencidos y a vencer.
func Summarize(groups []Classification) Summary {
	s := Summary{Total: len(groups)}
	for _, g := range groups {
		if g.Vencido {
			s.Vencidos++
		}
	}
	s.AVencer = s.Total - s.Vencidos
	return s
}
