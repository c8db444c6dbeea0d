package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/expiry"
	"github.com/jhoicas/gesafe-api/internal/infrastructure/memory"
)

const (
	testUser     = "user-1"
	testProperty = "prop-1"
)

func newLedger(t *testing.T) (*inventory.LedgerUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Properties().Create(ctx, &entity.Property{ID: testProperty, UserID: testUser, Name: "FAZENDA A"}))
	require.NoError(t, store.Properties().Create(ctx, &entity.Property{ID: "prop-2", UserID: testUser, Name: "FAZENDA B"}))
	require.NoError(t, store.Properties().Create(ctx, &entity.Property{ID: "prop-ajena", UserID: "otro", Name: "SITIO"}))
	uc := inventory.NewLedgerUseCase(store, inventory.NewLocalLocker(), store.Properties(), store.Lots(), store.Movements())
	return uc, store
}

func entrada(name, exp string, qty int64) inventory.EntradaInput {
	return inventory.EntradaInput{
		UserID: testUser, PropertyID: testProperty,
		ProductName: name, Expiry: exp, Packaging: "GALAO_5L", Quantity: qty,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ENTRADA
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntrada_CreaYSumaAlMismoLote(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	first, err := uc.RecordEntrada(ctx, entrada(" Glifosato ", "10/12/2030", 5))
	require.NoError(t, err)
	assert.Equal(t, "Glifosato", first.Lot.ProductName)
	assert.Equal(t, "FAZENDA A", first.Lot.PropertyName)
	assert.Equal(t, int64(5), first.Lot.QuantityOnHand)
	assert.Equal(t, first.Movement.ID, first.Lot.StockEntryID)
	assert.Equal(t, entity.MovementEntrada, first.Movement.Kind)

	second, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 3))
	require.NoError(t, err)
	assert.Equal(t, first.Lot.ID, second.Lot.ID)
	assert.Equal(t, int64(8), second.Lot.QuantityOnHand)
	assert.Equal(t, first.Lot.StockEntryID, second.Lot.StockEntryID)
	assert.Greater(t, second.Movement.Seq, first.Movement.Seq)
}

func TestRecordEntrada_RechazaDesbordeDelDisponible(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	first, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), first.Lot.QuantityOnHand)

	_, err = uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 10))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantidade", verr.Fields[0].Field)

	onHand, err := uc.OnHand(ctx, testUser, first.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), onHand)

	h, err := uc.History(ctx, testUser, first.Lot.ID)
	require.NoError(t, err)
	assert.Len(t, h.Movements, 1)

	_, err = uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: testProperty, LotID: first.Lot.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 1))
	require.NoError(t, err)
}

func TestRecordEntrada_ValidadeDistintaNoSeFusiona(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	a, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 5))
	require.NoError(t, err)
	b, err := uc.RecordEntrada(ctx, entrada("Glifosato", "11/12/2030", 5))
	require.NoError(t, err)
	assert.NotEqual(t, a.Lot.ID, b.Lot.ID)

	// atajo mes/año: último día del mes
	c, err := uc.RecordEntrada(ctx, entrada("Glifosato", "02/2028", 1))
	require.NoError(t, err)
	assert.Equal(t, "29/02/2028", expiry.Format(c.Lot.ExpiryDate))
}

func TestRecordEntrada_ValorUnitario(t *testing.T) {
	uc, _ := newLedger(t)
	v := decimal.RequireFromString("19.90")
	in := entrada("Ureia", "01/01/2031", 2)
	in.UnitValue = &v

	r, err := uc.RecordEntrada(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, r.Lot.UnitValue)
	assert.True(t, v.Equal(*r.Lot.UnitValue))
}

func TestRecordEntrada_AcumulaErroresDeValidacion(t *testing.T) {
	uc, _ := newLedger(t)
	_, err := uc.RecordEntrada(context.Background(), inventory.EntradaInput{
		UserID: testUser, ProductName: "  ", Expiry: "31/02/2024", Packaging: "CAIXA", Quantity: 0,
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"propriedadeId", "nome", "validade", "embalagem", "quantidade"}, fields)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordEntrada_Propriedade(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()

	in := entrada("X", "01/01/2031", 1)
	in.PropertyID = "no-existe"
	_, err := uc.RecordEntrada(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	in.PropertyID = "prop-ajena"
	_, err = uc.RecordEntrada(ctx, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// SAIDA
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSaida_RechazaSinRecortar(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 5))
	require.NoError(t, err)

	_, err = uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Quantity: 6})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	onHand, err := uc.OnHand(ctx, testUser, r.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), onHand, "una SAIDA rechazada no deja rastro")

	out, err := uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Lot.QuantityOnHand)
	assert.Equal(t, "Glifosato", out.Movement.ProductName)
}

func TestRecordSaida_LoteDeOtraPropriedade(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 5))
	require.NoError(t, err)

	_, err = uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: "prop-2", LotID: r.Lot.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordSaida_ConcurrentesNuncaNegativo(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 10))
	require.NoError(t, err)

	const workers = 25
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, rejected)
	onHand, err := uc.OnHand(ctx, testUser, r.Lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), onHand)
}

// ──────────────────────────────────────────────────────────────────────────────
// DESATIVACAO
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordDesativacao_EsTerminal(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 7))
	require.NoError(t, err)
	_, err = uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = uc.RecordDesativacao(ctx, inventory.DesativacaoInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Justification: " curta "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d, err := uc.RecordDesativacao(ctx, inventory.DesativacaoInput{
		UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Justification: "  embalagem violada  ",
	})
	require.NoError(t, err)
	assert.False(t, d.Lot.Active)
	assert.Equal(t, int64(5), d.Movement.Quantity)

	_, err = uc.RecordSaida(ctx, inventory.SaidaInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrLotInactive)

	_, err = uc.RecordDesativacao(ctx, inventory.DesativacaoInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Justification: "outra justificativa"})
	assert.ErrorIs(t, err, domain.ErrLotInactive)

	active, err := uc.ListActiveLots(ctx, testUser, testProperty)
	require.NoError(t, err)
	assert.Empty(t, active)

	h, err := uc.History(ctx, testUser, r.Lot.ID)
	require.NoError(t, err)
	require.Len(t, h.Movements, 3)
	assert.Equal(t, entity.MovementEntrada, h.Movements[0].Kind)
	assert.Equal(t, entity.MovementSaida, h.Movements[1].Kind)
	assert.Equal(t, entity.MovementDesativacao, h.Movements[2].Kind)
	assert.Equal(t, "embalagem violada", h.Movements[2].Justification)
	assert.Equal(t, int64(5), h.OnHand, "la DESATIVACAO no altera la aritmética")
}

func TestRecordEntrada_ClaveInerteAbreLoteNuevo(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 7))
	require.NoError(t, err)
	_, err = uc.RecordDesativacao(ctx, inventory.DesativacaoInput{UserID: testUser, PropertyID: testProperty, LotID: r.Lot.ID, Justification: "produto vencido no galpão"})
	require.NoError(t, err)

	n, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 1))
	require.NoError(t, err)
	assert.NotEqual(t, r.Lot.ID, n.Lot.ID)
	assert.Equal(t, int64(1), n.Lot.QuantityOnHand)
}

func TestDeactivateByMovement(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 7))
	require.NoError(t, err)

	_, err = uc.DeactivateByMovement(ctx, testUser, r.Movement.ID, "prop-2", "justificativa válida")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.DeactivateByMovement(ctx, testUser, "no-existe", testProperty, "justificativa válida")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, err := uc.DeactivateByMovement(ctx, testUser, r.Movement.ID, testProperty, "justificativa válida")
	require.NoError(t, err)
	assert.Equal(t, r.Lot.ID, d.Lot.ID)
	assert.Equal(t, entity.MovementDesativacao, d.Movement.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

func TestEditLotDescriptor(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	a, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 4))
	require.NoError(t, err)
	b, err := uc.RecordEntrada(ctx, entrada("Atrazina", "10/12/2030", 2))
	require.NoError(t, err)

	edit := inventory.EditInput{UserID: testUser, PropertyID: testProperty, LotID: a.Lot.ID,
		ProductName: "Glifosato 480", Expiry: "05/2031", Packaging: "GALAO_10L"}
	out, err := uc.EditLotDescriptor(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "Glifosato 480", out.Lot.ProductName)
	assert.Equal(t, "31/05/2031", expiry.Format(out.Lot.ExpiryDate))
	assert.Equal(t, int64(4), out.Lot.QuantityOnHand)
	assert.Nil(t, out.Movement)

	h, err := uc.History(ctx, testUser, a.Lot.ID)
	require.NoError(t, err)
	assert.Len(t, h.Movements, 1, "editar no agrega movimentação")

	// misma validación del cadastro
	bad := edit
	bad.Expiry = "31/02/2031"
	_, err = uc.EditLotDescriptor(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// choque con otro lote activo
	clash := edit
	clash.ProductName, clash.Expiry, clash.Packaging = "Atrazina", "10/12/2030", "GALAO_5L"
	_, err = uc.EditLotDescriptor(ctx, clash)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.RecordDesativacao(ctx, inventory.DesativacaoInput{UserID: testUser, PropertyID: testProperty, LotID: b.Lot.ID, Justification: "produto avariado"})
	require.NoError(t, err)
	_, err = uc.EditLotDescriptor(ctx, inventory.EditInput{UserID: testUser, PropertyID: testProperty, LotID: b.Lot.ID,
		ProductName: "Atrazina", Expiry: "10/12/2030", Packaging: "GALAO_5L"})
	assert.ErrorIs(t, err, domain.ErrLotInactive)
}

func TestHistory_LoteDeOtroUsuario(t *testing.T) {
	uc, _ := newLedger(t)
	ctx := context.Background()
	r, err := uc.RecordEntrada(ctx, entrada("Glifosato", "10/12/2030", 4))
	require.NoError(t, err)

	_, err = uc.History(ctx, "otro", r.Lot.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// LocalLocker
// ──────────────────────────────────────────────────────────────────────────────

func TestLocalLocker(t *testing.T) {
	l := inventory.NewLocalLocker()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "a")
	require.NoError(t, err)

	// otra clave no espera
	releaseB, err := l.Acquire(ctx, "b")
	require.NoError(t, err)
	releaseB()

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(waitCtx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release() // idempotente
	assert.Equal(t, 0, l.Len())

	again, err := l.Acquire(ctx, "a")
	require.NoError(t, err)
	again()
}
