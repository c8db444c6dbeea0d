package entity

import (
	"time"

	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// MovementKind tipo de movimentação.
type MovementKind string

const (
	MovementEntrada     MovementKind = "ENTRADA"     // entrada de estoque
	MovementSaida       MovementKind = "SAIDA"       // saída de estoque
	MovementDesativacao MovementKind = "DESATIVACAO" // baixa terminal com justificativa
)

// ParseMovementKind valida el token de tipo.
func ParseMovementKind(s string) (MovementKind, bool) {
	switch k := MovementKind(s); k {
	case MovementEntrada, MovementSaida, MovementDesativacao:
		return k, true
	}
	return "", false
}

// Movement es un registro inmutable del ledger.
// Seq ordena los eventos en el orden en que el servidor los aceptó.
type Movement struct {
	ID            string
	Seq           int64
	LotID         string
	PropertyID    string
	Kind          MovementKind
	Quantity      int64 // ENTRADA/SAIDA: cantidad movida; DESATIVACAO: estoque al desactivar (informativo)
	Justification string
	CreatedAt     time.Time
	CreatedBy     string

	// Campos de solo lectura resueltos en consultas de reporte.
	ProductName  string
	Packaging    packaging.Kind
	ExpiryDate   time.Time
	PropertyName string
}
