package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/pkg/logger"
)

// retryInterval espera entre intentos de tomar un candado ocupado.
const retryInterval = 100 * time.Millisecond

// Locker candado distribuido (redislock) para serializar el recálculo entre réplicas.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewLocker construye el candado. ttl acota cuánto puede retener una réplica caída la llave.
func NewLocker(rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *Locker {
	if log == nil {
		log = logger.Nop()
	}
	return &Locker{client: redislock.New(rdb), ttl: ttl, log: log.Component("redis_locker")}
}

// Acquire reintenta hasta el TTL. Si no obtiene la llave devuelve ErrConflict.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	retries := int(l.ttl / retryInterval)
	lock, err := l.client.Obtain(ctx, keyPrefix+"lock:"+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("recálculo en curso para %s: %w", key, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", key, err)
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el candado")
		}
	}, nil
}
