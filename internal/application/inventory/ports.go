package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio de
// snapshots atado a esa tx. Garantiza que un snapshot y sus líneas se escriben juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(snapshots repository.SnapshotRepository) error) error
}

// SettlementInvalidator descarta liquidaciones guardadas cuyo cálculo depende de un snapshot
// que cambió. centerID vacío = consolidado de la empresa.
type SettlementInvalidator interface {
	Invalidate(ctx context.Context, companyID string, date time.Time, centerID string) error
}

// RollupExporter genera la planilla del consolidado por centro.
type RollupExporter interface {
	RollupXLSX(rollup *dto.RollupResponse) ([]byte, error)
}

// Recorder registra métricas de agregación. Lo implementa infrastructure/metrics.
type Recorder interface {
	ObserveAggregation(operation string, buckets int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAggregation(string, int, time.Duration) {}
