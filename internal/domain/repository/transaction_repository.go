package repository

import (
	"context"
	"time"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// TransactionRepository proveedor de líneas valorizadas de contratos y despachos.
// centerID vacío = todos los centros de la empresa.
type TransactionRepository interface {
	ListByDay(ctx context.Context, companyID, centerID string, date time.Time) ([]entity.PricedTransaction, error)
}
