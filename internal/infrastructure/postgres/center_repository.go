package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.CenterRepository = (*CenterRepo)(nil)

// CenterRepo directorio de centros de acopio sobre PostgreSQL.
type CenterRepo struct {
	q Querier
}

// NewCenterRepository construye el adaptador de lectura de centros.
func NewCenterRepository(q Querier) *CenterRepo {
	return &CenterRepo{q: q}
}

// GetByID obtiene un centro por ID; (nil, nil) si no existe.
func (r *CenterRepo) GetByID(ctx context.Context, id string) (*entity.Center, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM centers WHERE id = $1`
	var c entity.Center
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get center: %w", err)
	}
	return &c, nil
}

// ListByCompany lista los centros de la empresa por nombre.
func (r *CenterRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Center, error) {
	query := `
		SELECT id, company_id, name, address, created_at, updated_at
		FROM centers WHERE company_id = $1 ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list centers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Center
	for rows.Next() {
		var c entity.Center
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan center: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
