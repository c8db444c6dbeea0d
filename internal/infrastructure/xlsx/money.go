package xlsx

import "github.com/shopspring/decimal"

// money celda numérica; sin valor queda vacía.
func money(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.Round(2).InexactFloat64()
}
