package inventory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

// Límites de los campos del lote.
const (
	MaxProductNameLen   = 50
	MinJustificationLen = 10
	UnitValueScale      = 2 // casas decimais de NUMERIC(14, 2)
)

// MaxUnitValue límite exclusivo de valorUnitario (NUMERIC(14, 2)).
var MaxUnitValue = decimal.New(1, 12)

// Nombres de campo tal como viajan en la API.
const (
	FieldName          = "nome"
	FieldQuantity      = "quantidade"
	FieldExpiry        = "validade"
	FieldPackaging     = "embalagem"
	FieldProperty      = "propriedadeId"
	FieldJustification = "justificativa"
	FieldUnitValue     = "valorUnitario"
	FieldProduct       = "produtoId"
)

// Descriptor campos descriptivos de un lote ya validados.
type Descriptor struct {
	ProductName string
	Packaging   packaging.Kind
	Expiry      time.Time
}

// ParseDescriptor valida nombre, validade y embalagem con las mismas reglas del cadastro.
// Acumula los errores de todos los campos en un único ValidationError.
func ParseDescriptor(name, rawExpiry, rawPackaging string, verr *domain.ValidationError) Descriptor {
	var d Descriptor

	d.ProductName = strings.TrimSpace(name)
	switch {
	case d.ProductName == "":
		verr.Add(FieldName, "Nome é obrigatório")
	case utf8.RuneCountInString(d.ProductName) > MaxProductNameLen:
		verr.Add(FieldName, "Nome do produto deve ter no máximo 50 caracteres")
	}

	exp, err := expiry.Resolve(strings.TrimSpace(rawExpiry))
	if err != nil {
		verr.Add(FieldExpiry, expiry.Message(err))
	}
	d.Expiry = exp

	pk, ok := packaging.Parse(rawPackaging)
	if !ok {
		verr.Add(FieldPackaging, "Selecione uma embalagem válida")
	}
	d.Packaging = pk
	return d
}

// ValidateQuantity cantidad entera positiva.
func ValidateQuantity(q int64) error {
	if q <= 0 {
		return domain.NewValidationError(FieldQuantity, "Quantidade deve ser um número válido maior que 0")
	}
	return nil
}

// ValidateJustification mínimo de 10 caracteres después de recortar espacios.
func ValidateJustification(j string) (string, error) {
	j = strings.TrimSpace(j)
	if utf8.RuneCountInString(j) < MinJustificationLen {
		return "", domain.NewValidationError(FieldJustification, "A justificativa é obrigatória e deve ter pelo menos 10 caracteres")
	}
	return j, nil
}

// ValidateUnitValue valor unitario opcional: no negativo, menor que MaxUnitValue
// y con a lo sumo dos decimales.
func ValidateUnitValue(v *decimal.Decimal) error {
	switch {
	case v == nil:
		return nil
	case v.IsNegative():
		return domain.NewValidationError(FieldUnitValue, "Valor unitário não pode ser negativo")
	case v.GreaterThanOrEqual(MaxUnitValue):
		return domain.NewValidationError(FieldUnitValue, "Valor unitário deve ser menor que 1.000.000.000.000")
	case !v.Equal(v.Truncate(UnitValueScale)):
		return domain.NewValidationError(FieldUnitValue, "Valor unitário deve ter no máximo 2 casas decimais")
	}
	return nil
}
