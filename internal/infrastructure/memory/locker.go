package memory

import (
	"context"
	"sync"
)

// Locker candado por llave dentro del proceso. Acquire espera a que la llave se libere o a que
// el contexto se cancele.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewLocker construye el candado.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]chan struct{})}
}

// Acquire toma la llave y devuelve la función que la libera (idempotente).
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			ch = make(chan struct{})
			l.held[key] = ch
			l.mu.Unlock()
			var once sync.Once
			return func() {
				once.Do(func() {
					l.mu.Lock()
					delete(l.held, key)
					l.mu.Unlock()
					close(ch)
				})
			}, nil
		}
		l.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
