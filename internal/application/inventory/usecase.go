package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gesafe-api/internal/domain"
	"github.com/jhoicas/gesafe-api/internal/domain/entity"
	"github.com/jhoicas/gesafe-api/internal/domain/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

// LedgerUseCase registra movimentações de estoque de forma transaccional
// (ENTRADA, SAIDA, DESATIVACAO) y la edición de lotes.
// Las escrituras sobre un mismo lote se serializan con Locker y, dentro de la
// transacción, con bloqueo de fila (GetForUpdate).
type LedgerUseCase struct {
	txRunner     TxRunner
	locker       Locker
	propertyRepo repository.PropertyRepository
	lotRepo      repository.LotRepository
	movementRepo repository.MovementRepository
	now          func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	locker Locker,
	propertyRepo repository.PropertyRepository,
	lotRepo repository.LotRepository,
	movementRepo repository.MovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		locker:       locker,
		propertyRepo: propertyRepo,
		lotRepo:      lotRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
}

// EntradaInput cadastro de produto (ENTRADA). Expiry acepta DD/MM/AAAA o MM/AAAA.
type EntradaInput struct {
	UserID      string
	PropertyID  string
	ProductName string
	Expiry      string
	Packaging   string
	Quantity    int64
	UnitValue   *decimal.Decimal
}

// SaidaInput retirada de estoque de un lote.
type SaidaInput struct {
	UserID     string
	PropertyID string
	LotID      string
	Quantity   int64
}

// DesativacaoInput baja terminal de un lote.
type DesativacaoInput struct {
	UserID        string
	PropertyID    string
	LotID         string
	Justification string
}

// EditInput corrección de los campos descriptivos de un lote.
type EditInput struct {
	UserID      string
	PropertyID  string
	LotID       string
	ProductName string
	Expiry      string
	Packaging   string
}

// Receipt resultado de una escritura: el lote con su disponible actualizado y
// el movimiento agregado (nil en ediciones).
type Receipt struct {
	Lot      *entity.Lot
	Movement *entity.Movement
}

// History historial cronológico de un lote.
type History struct {
	Lot       *entity.Lot
	OnHand    int64
	Movements []*entity.Movement
}

// RecordEntrada crea el lote identificado por (propriedade, nome, embalagem, validade)
// o suma al lote activo existente con esa clave.
func (uc *LedgerUseCase) RecordEntrada(ctx context.Context, in EntradaInput) (*Receipt, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.PropertyID) == "" {
		verr.Add(inventory.FieldProperty, "Selecione uma propriedade")
	}
	desc := inventory.ParseDescriptor(in.ProductName, in.Expiry, in.Packaging, verr)
	verr.Merge(inventory.ValidateQuantity(in.Quantity))
	verr.Merge(inventory.ValidateUnitValue(in.UnitValue))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	property, err := uc.ownedProperty(ctx, in.UserID, in.PropertyID)
	if err != nil {
		return nil, err
	}

	key := entity.LotKey{
		PropertyID:  property.ID,
		ProductName: desc.ProductName,
		Packaging:   desc.Packaging,
		Expiry:      desc.Expiry,
	}

	// Orden de bloqueo: clave natural y después el id del lote.
	releaseKey, err := uc.locker.Acquire(ctx, naturalLockKey(key.String()))
	if err != nil {
		return nil, err
	}
	defer releaseKey()

	existing, err := uc.lotRepo.FindActiveByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		releaseLot, err := uc.locker.Acquire(ctx, lotLockKey(existing.ID))
		if err != nil {
			return nil, err
		}
		defer releaseLot()
	}

	now := uc.now()
	var out *Receipt
	err = uc.txRunner.Run(ctx, func(lots repository.LotRepository, movs repository.MovementRepository) error {
		lot, err := lots.FindActiveByKey(ctx, key)
		if err != nil {
			return err
		}
		if lot != nil {
			// Bloquea la fila del lote hasta el commit
			if lot, err = lots.GetForUpdate(ctx, lot.ID); err != nil {
				return err
			}
			if err := refreshOnHand(ctx, movs, lot); err != nil {
				return err
			}
			if err := inventory.CheckEntrada(lot.QuantityOnHand, in.Quantity); err != nil {
				return err
			}
		}

		mov := &entity.Movement{
			ID:         uuid.New().String(),
			PropertyID: property.ID,
			Kind:       entity.MovementEntrada,
			Quantity:   in.Quantity,
			CreatedAt:  now,
			CreatedBy:  in.UserID,
		}

		if lot == nil {
			lot = &entity.Lot{
				ID:           uuid.New().String(),
				StockEntryID: mov.ID,
				PropertyID:   property.ID,
				PropertyName: property.Name,
				ProductName:  desc.ProductName,
				Packaging:    desc.Packaging,
				ExpiryDate:   desc.Expiry,
				UnitValue:    in.UnitValue,
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := lots.Create(ctx, lot); err != nil {
				return err
			}
		} else if in.UnitValue != nil {
			lot.UnitValue = in.UnitValue
			lot.UpdatedAt = now
			if err := lots.Update(ctx, lot); err != nil {
				return err
			}
		}

		mov.LotID = lot.ID
		if err := movs.Create(ctx, mov); err != nil {
			return err
		}
		if err := refreshOnHand(ctx, movs, lot); err != nil {
			return err
		}
		out = &Receipt{Lot: lot, Movement: describe(mov, lot)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordSaida verifica disponible >= cantidad solicitada y agrega la SAIDA.
// Nunca recorta: una retirada mayor al disponible se rechaza completa.
func (uc *LedgerUseCase) RecordSaida(ctx context.Context, in SaidaInput) (*Receipt, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.LotID) == "" {
		verr.Add(inventory.FieldProduct, "Selecione um produto")
	}
	if strings.TrimSpace(in.PropertyID) == "" {
		verr.Add(inventory.FieldProperty, "Selecione uma propriedade")
	}
	verr.Merge(inventory.ValidateQuantity(in.Quantity))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if _, err := uc.ownedProperty(ctx, in.UserID, in.PropertyID); err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, lotLockKey(in.LotID))
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.now()
	var out *Receipt
	err = uc.txRunner.Run(ctx, func(lots repository.LotRepository, movs repository.MovementRepository) error {
		lot, err := lockLot(ctx, lots, in.LotID, in.PropertyID)
		if err != nil {
			return err
		}
		events, err := movs.ListByLot(ctx, lot.ID)
		if err != nil {
			return err
		}
		onHand := inventory.OnHand(events)
		if err := inventory.CheckWithdrawal(lot, onHand, in.Quantity); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:         uuid.New().String(),
			LotID:      lot.ID,
			PropertyID: lot.PropertyID,
			Kind:       entity.MovementSaida,
			Quantity:   in.Quantity,
			CreatedAt:  now,
			CreatedBy:  in.UserID,
		}
		if err := movs.Create(ctx, mov); err != nil {
			return err
		}
		lot.QuantityOnHand = onHand - in.Quantity
		out = &Receipt{Lot: lot, Movement: describe(mov, lot)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordDesativacao marca el lote como inerte y agrega la DESATIVACAO con la justificativa.
// La cantidad del evento es el disponible al desactivar y no entra en la aritmética.
func (uc *LedgerUseCase) RecordDesativacao(ctx context.Context, in DesativacaoInput) (*Receipt, error) {
	justification, err := inventory.ValidateJustification(in.Justification)
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedProperty(ctx, in.UserID, in.PropertyID); err != nil {
		return nil, err
	}

	release, err := uc.locker.Acquire(ctx, lotLockKey(in.LotID))
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.now()
	var out *Receipt
	err = uc.txRunner.Run(ctx, func(lots repository.LotRepository, movs repository.MovementRepository) error {
		lot, err := lockLot(ctx, lots, in.LotID, in.PropertyID)
		if err != nil {
			return err
		}
		if !lot.Active {
			return domain.ErrLotInactive
		}
		events, err := movs.ListByLot(ctx, lot.ID)
		if err != nil {
			return err
		}
		onHand := inventory.OnHand(events)

		lot.Active = false
		lot.UpdatedAt = now
		if err := lots.Update(ctx, lot); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:            uuid.New().String(),
			LotID:         lot.ID,
			PropertyID:    lot.PropertyID,
			Kind:          entity.MovementDesativacao,
			Quantity:      onHand,
			Justification: justification,
			CreatedAt:     now,
			CreatedBy:     in.UserID,
		}
		if err := movs.Create(ctx, mov); err != nil {
			return err
		}
		lot.QuantityOnHand = onHand
		out = &Receipt{Lot: lot, Movement: describe(mov, lot)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateByMovement resuelve el lote a partir de cualquiera de sus movimientos
// (la ruta HTTP de desativação identifica el lote por movimentação).
func (uc *LedgerUseCase) DeactivateByMovement(ctx context.Context, userID, movementID, propertyID, justification string) (*Receipt, error) {
	if _, err := inventory.ValidateJustification(justification); err != nil {
		return nil, err
	}
	mov, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil || mov.PropertyID != propertyID {
		return nil, domain.ErrNotFound
	}
	return uc.RecordDesativacao(ctx, DesativacaoInput{
		UserID:        userID,
		PropertyID:    propertyID,
		LotID:         mov.LotID,
		Justification: justification,
	})
}

// EditLotDescriptor reescribe nome, validade y embalagem sin agregar movimentação.
// Valida con las mismas reglas del cadastro.
func (uc *LedgerUseCase) EditLotDescriptor(ctx context.Context, in EditInput) (*Receipt, error) {
	verr := &domain.ValidationError{}
	desc := inventory.ParseDescriptor(in.ProductName, in.Expiry, in.Packaging, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if _, err := uc.ownedProperty(ctx, in.UserID, in.PropertyID); err != nil {
		return nil, err
	}

	key := entity.LotKey{
		PropertyID:  in.PropertyID,
		ProductName: desc.ProductName,
		Packaging:   desc.Packaging,
		Expiry:      desc.Expiry,
	}
	releaseKey, err := uc.locker.Acquire(ctx, naturalLockKey(key.String()))
	if err != nil {
		return nil, err
	}
	defer releaseKey()
	releaseLot, err := uc.locker.Acquire(ctx, lotLockKey(in.LotID))
	if err != nil {
		return nil, err
	}
	defer releaseLot()

	now := uc.now()
	var out *Receipt
	err = uc.txRunner.Run(ctx, func(lots repository.LotRepository, movs repository.MovementRepository) error {
		lot, err := lockLot(ctx, lots, in.LotID, in.PropertyID)
		if err != nil {
			return err
		}
		if !lot.Active {
			return domain.ErrLotInactive
		}
		other, err := lots.FindActiveByKey(ctx, key)
		if err != nil {
			return err
		}
		if other != nil && other.ID != lot.ID {
			return domain.ErrDuplicate
		}

		lot.ProductName = desc.ProductName
		lot.Packaging = desc.Packaging
		lot.ExpiryDate = desc.Expiry
		lot.UpdatedAt = now
		if err := lots.Update(ctx, lot); err != nil {
			return err
		}
		if err := refreshOnHand(ctx, movs, lot); err != nil {
			return err
		}
		out = &Receipt{Lot: lot}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OnHand disponible derivado del historial del lote.
func (uc *LedgerUseCase) OnHand(ctx context.Context, userID, lotID string) (int64, error) {
	h, err := uc.History(ctx, userID, lotID)
	if err != nil {
		return 0, err
	}
	return h.OnHand, nil
}

// ListActiveLots lotes activos de la propriedade, excluye los desactivados.
func (uc *LedgerUseCase) ListActiveLots(ctx context.Context, userID, propertyID string) ([]*entity.Lot, error) {
	if _, err := uc.ownedProperty(ctx, userID, propertyID); err != nil {
		return nil, err
	}
	return uc.lotRepo.List(ctx, repository.LotFilter{PropertyID: propertyID, ActiveOnly: true})
}

// History devuelve todos los eventos del lote en orden cronológico, incluida la DESATIVACAO.
func (uc *LedgerUseCase) History(ctx context.Context, userID, lotID string) (*History, error) {
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	property, err := uc.propertyRepo.GetByID(ctx, lot.PropertyID)
	if err != nil {
		return nil, err
	}
	// Lotes de otro usuario se reportan como inexistentes
	if property == nil || property.UserID != userID {
		return nil, domain.ErrNotFound
	}
	events, err := uc.movementRepo.ListByLot(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		describe(e, lot)
	}
	onHand := inventory.OnHand(events)
	lot.QuantityOnHand = onHand
	return &History{Lot: lot, OnHand: onHand, Movements: events}, nil
}

// ownedProperty verifica que la propriedade exista y pertenezca al usuario.
func (uc *LedgerUseCase) ownedProperty(ctx context.Context, userID, propertyID string) (*entity.Property, error) {
	p, err := uc.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// lockLot bloquea la fila y verifica que el lote sea de la propriedade indicada.
func lockLot(ctx context.Context, lots repository.LotRepository, lotID, propertyID string) (*entity.Lot, error) {
	lot, err := lots.GetForUpdate(ctx, lotID)
	if err != nil {
		return nil, err
	}
	if lot == nil || lot.PropertyID != propertyID {
		return nil, domain.ErrNotFound
	}
	return lot, nil
}

func refreshOnHand(ctx context.Context, movs repository.MovementRepository, lot *entity.Lot) error {
	events, err := movs.ListByLot(ctx, lot.ID)
	if err != nil {
		return err
	}
	lot.QuantityOnHand = inventory.OnHand(events)
	return nil
}

// describe copia los campos de lectura del lote en el movimiento.
func describe(m *entity.Movement, lot *entity.Lot) *entity.Movement {
	m.ProductName = lot.ProductName
	m.Packaging = lot.Packaging
	m.ExpiryDate = lot.ExpiryDate
	m.PropertyName = lot.PropertyName
	return m
}
