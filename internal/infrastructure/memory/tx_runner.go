package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

// TxRunner ejecuta la función contra el almacén en memoria. Si fn falla, el almacén vuelve al
// estado previo. Las transacciones se serializan entre sí; las escrituras fuera de Run durante
// una transacción fallida se pierden con el rollback.
type TxRunner struct {
	mu        sync.Mutex
	snapshots *SnapshotRepo
}

// NewTxRunner construye el runner sobre el almacén de snapshots.
func NewTxRunner(snapshots *SnapshotRepo) *TxRunner {
	return &TxRunner{snapshots: snapshots}
}

// Run ejecuta fn con el repositorio de snapshots.
func (r *TxRunner) Run(ctx context.Context, fn func(snapshots repository.SnapshotRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := r.snapshots.checkpoint()
	if err := fn(r.snapshots); err != nil {
		r.snapshots.restore(saved)
		return err
	}
	return nil
}
