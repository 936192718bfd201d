package repository

import (
	"context"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// CenterRepository directorio de centros de acopio (solo lectura; el CRUD vive en otro servicio).
// Se usa para resolver center_id → nombre en reportes.
type CenterRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Center, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Center, error)
}
