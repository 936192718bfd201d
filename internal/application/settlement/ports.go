package settlement

import (
	"context"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// Locker serializa el recálculo de una misma liquidación entre réplicas.
// release libera la llave; llamarla más de una vez no tiene efecto.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// PDFGenerator genera el reporte PDF de una liquidación. centerName vacío = consolidado.
type PDFGenerator interface {
	SettlementPDF(s *entity.DailySettlement, centerName string) ([]byte, error)
}

// Recorder registra métricas de conciliación. Lo implementa infrastructure/metrics.
type Recorder interface {
	ObserveSettlement(s *entity.DailySettlement, cached bool)
	ObserveSettlementError()
}

type nopRecorder struct{}

func (nopRecorder) ObserveSettlement(*entity.DailySettlement, bool) {}
func (nopRecorder) ObserveSettlementError()                         {}
