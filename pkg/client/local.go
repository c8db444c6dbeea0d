package client

import "github.com/jhoicas/gesafe-api/internal/application/dto"

// ApplyLocalWithdrawal descuenta qty del produto en una copia de la lista, sin bajar
// de cero. Es provisorio: después de cada saída hay que volver a llamar a Products.
func ApplyLocalWithdrawal(products []dto.ProductResponse, productID string, qty int64) []dto.ProductResponse {
	out := make([]dto.ProductResponse, len(products))
	copy(out, products)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = max(0, out[i].Quantity-qty)
		}
	}
	return out
}
