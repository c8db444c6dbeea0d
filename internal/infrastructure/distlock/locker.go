// Package distlock implementa inventory.Locker sobre Redis para que varias
// instancias de la API serialicen las escrituras de un mismo lote.
package distlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/inventory"
	"github.com/jhoicas/gesafe-api/internal/domain"
)

var _ inventory.Locker = (*Locker)(nil)

const keyPrefix = "gesafe:lock:"

// Locker bloqueo por clave con TTL. Si el proceso muere el lock expira solo.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
	log    zerolog.Logger
}

// New construye el locker. ttl acota tanto la vida del lock como la espera
// cuando ctx no trae deadline.
func New(rdb redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  25 * time.Millisecond,
		log:    log,
	}
}

// Acquire espera el lock mientras ctx siga vigente (o hasta ttl si ctx no trae deadline).
// Sin lock devuelve ErrConflict (o el error de ctx si fue cancelado).
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConflict)
		}
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(lock, key) })
	}, nil
}

func (l *Locker) release(lock *redislock.Lock, key string) {
	// Liberar aunque la petición ya se haya cancelado.
	rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := lock.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock")
	}
}
