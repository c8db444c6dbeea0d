package inventory_test

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain/packaging"
)

func mov(kind entity.MovementKind, q int64) *entity.Movement {
	return &entity.Movement{Kind: kind, Quantity: q}
}

func TestOnHand(t *testing.T) {
	cases := []struct {
		name   string
		events []*entity.Movement
		want   int64
	}{
		{"vacío", nil, 0},
		{"solo entradas", []*entity.Movement{mov(entity.MovementEntrada, 5), mov(entity.MovementEntrada, 3)}, 8},
		{"entradas y salidas", []*entity.Movement{mov(entity.MovementEntrada, 10), mov(entity.MovementSaida, 4)}, 6},
		{"desativacao no cuenta", []*entity.Movement{mov(entity.MovementEntrada, 10), mov(entity.MovementDesativacao, 10)}, 10},
		{"nunca negativo", []*entity.Movement{mov(entity.MovementEntrada, 1), mov(entity.MovementSaida, 3)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.OnHand(tc.events))
		})
	}
}

func TestIsInert(t *testing.T) {
	assert.False(t, inventory.IsInert([]*entity.Movement{mov(entity.MovementEntrada, 1)}))
	assert.True(t, inventory.IsInert([]*entity.Movement{mov(entity.MovementEntrada, 1), mov(entity.MovementDesativacao, 1)}))
}

func TestCheckWithdrawal(t *testing.T) {
	active := &entity.Lot{Active: true}
	assert.NoError(t, inventory.CheckWithdrawal(active, 5, 5))
	assert.ErrorIs(t, inventory.CheckWithdrawal(active, 5, 6), domain.ErrInsufficientStock)
	assert.ErrorIs(t, inventory.CheckWithdrawal(active, 5, 0), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.CheckWithdrawal(&entity.Lot{Active: false}, 5, 1), domain.ErrLotInactive)
}

func TestCheckEntrada(t *testing.T) {
	assert.NoError(t, inventory.CheckEntrada(0, math.MaxInt64))
	assert.NoError(t, inventory.CheckEntrada(math.MaxInt64-10, 10))
	assert.ErrorIs(t, inventory.CheckEntrada(math.MaxInt64-10, 11), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.CheckEntrada(math.MaxInt64, 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.CheckEntrada(5, 0), domain.ErrInvalidInput)
}

func TestParseDescriptor_Valido(t *testing.T) {
	verr := &domain.ValidationError{}
	d := inventory.ParseDescriptor("  Glifosato  ", "02/2024", "GALAO_5L", verr)
	require.True(t, verr.Empty())
	assert.Equal(t, "Glifosato", d.ProductName)
	assert.Equal(t, packaging.Galao5L, d.Packaging)
	assert.Equal(t, 29, d.Expiry.Day())
}

func TestParseDescriptor_AcumulaErrores(t *testing.T) {
	verr := &domain.ValidationError{}
	inventory.ParseDescriptor(strings.Repeat("x", 51), "31/02/2024", "CAIXA", verr)
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, inventory.FieldName, verr.Fields[0].Field)
	assert.Equal(t, inventory.FieldExpiry, verr.Fields[1].Field)
	assert.Equal(t, "Validade não é uma data válida", verr.Fields[1].Message)
	assert.Equal(t, inventory.FieldPackaging, verr.Fields[2].Field)
	assert.ErrorIs(t, verr, domain.ErrInvalidInput)
}

func TestParseDescriptor_NombreConAcentosCuentaRunas(t *testing.T) {
	verr := &domain.ValidationError{}
	inventory.ParseDescriptor(strings.Repeat("ç", 50), "01/01/2030", "OUTROS", verr)
	assert.True(t, verr.Empty())
}

func TestValidateJustification(t *testing.T) {
	_, err := inventory.ValidateJustification("  curta   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	j, err := inventory.ValidateJustification("  produto vencido no galpão ")
	require.NoError(t, err)
	assert.Equal(t, "produto vencido no galpão", j)
}

func TestValidateUnitValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"cero", "0", ""},
		{"dos decimales", "12.35", ""},
		{"ceros a la derecha", "12.500", ""},
		{"maximo", "999999999999.99", ""},
		{"negativo", "-1", "Valor unitário não pode ser negativo"},
		{"fuera de rango", "1000000000000", "Valor unitário deve ser menor que 1.000.000.000.000"},
		{"tres decimales", "1.005", "Valor unitário deve ter no máximo 2 casas decimais"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decimal.RequireFromString(tt.value)
			err := inventory.ValidateUnitValue(&v)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, inventory.FieldUnitValue, verr.Fields[0].Field)
			assert.Equal(t, tt.want, verr.Fields[0].Message)
		})
	}
	assert.NoError(t, inventory.ValidateUnitValue(nil))
}
