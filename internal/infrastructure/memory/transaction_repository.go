package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo proveedor de líneas valorizadas en memoria.
type TransactionRepo struct {
	mu    sync.RWMutex
	lines []entity.PricedTransaction
}

// NewTransactionRepository construye el proveedor con líneas iniciales opcionales.
func NewTransactionRepository(lines ...entity.PricedTransaction) *TransactionRepo {
	return &TransactionRepo{lines: append([]entity.PricedTransaction(nil), lines...)}
}

// Add agrega líneas (contratos y despachos registrados por otros módulos).
func (r *TransactionRepo) Add(lines ...entity.PricedTransaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, lines...)
}

// ListByDay líneas de la empresa en la fecha; centerID vacío = todos los centros.
func (r *TransactionRepo) ListByDay(_ context.Context, companyID, centerID string, date time.Time) ([]entity.PricedTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.PricedTransaction, 0)
	for _, l := range r.lines {
		if l.CompanyID != companyID || !entity.SameDay(l.Date, date) {
			continue
		}
		if centerID != "" && l.CenterID != centerID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
