package repository

import (
	"context"
	"time"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// SettlementRepository almacén de liquidaciones diarias. Funciona como caché de una función pura,
// con llave (empresa, fecha, centro|nil); centerID vacío representa el consolidado.
// La ausencia de registro significa "aún no calculada".
type SettlementRepository interface {
	// Get devuelve (nil, nil) si no existe.
	Get(ctx context.Context, companyID string, date time.Time, centerID string) (*entity.DailySettlement, error)
	Upsert(ctx context.Context, s *entity.DailySettlement) error
	ListRange(ctx context.Context, companyID string, from, to time.Time, centerID string) ([]entity.DailySettlement, error)
	Delete(ctx context.Context, companyID string, date time.Time, centerID string) error
}
