package inventory

import (
	"math"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
)

// OnHand implementa el cálculo de estoque disponible de un lote (servicio de dominio).
// Disponible = Σ ENTRADA − Σ SAIDA, nunca menor que cero. DESATIVACAO no altera la aritmética.
func OnHand(events []*entity.Movement) int64 {
	var total int64
	for _, e := range events {
		if e == nil {
			continue
		}
		switch e.Kind {
		case entity.MovementEntrada:
			total += e.Quantity
		case entity.MovementSaida:
			total -= e.Quantity
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// IsInert indica si el historial contiene una DESATIVACAO.
func IsInert(events []*entity.Movement) bool {
	for _, e := range events {
		if e != nil && e.Kind == entity.MovementDesativacao {
			return true
		}
	}
	return false
}

// CheckEntrada rechaza una ENTRADA que haría desbordar el disponible del lote.
func CheckEntrada(onHand, quantity int64) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if onHand > math.MaxInt64-quantity {
		return domain.NewValidationError(FieldQuantity, "Quantidade excede o limite de estoque do lote")
	}
	return nil
}

// CheckWithdrawal valida una SAIDA contra el estado actual del lote.
// Nunca recorta la cantidad: o se acepta completa o se rechaza.
func CheckWithdrawal(lot *entity.Lot, onHand, quantity int64) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if !lot.Active {
		return domain.ErrLotInactive
	}
	if quantity > onHand {
		return domain.ErrInsufficientStock
	}
	return nil
}
