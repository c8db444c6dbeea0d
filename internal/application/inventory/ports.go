package inventory

import (
	"context"

	"github.com/jhoicas/gesafe-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del ledger: o se aplican todas las escrituras o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lots repository.LotRepository,
		movements repository.MovementRepository,
	) error) error
}

// Locker serializa las escrituras sobre una misma clave (un lote o una clave natural).
// Claves distintas no se bloquean entre sí. release debe llamarse exactamente una vez.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Claves de bloqueo.
func lotLockKey(lotID string) string   { return "lote:" + lotID }
func naturalLockKey(key string) string { return "lote-chave:" + key }
