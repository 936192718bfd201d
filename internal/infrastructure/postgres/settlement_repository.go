package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.SettlementRepository = (*SettlementRepo)(nil)

// SettlementRepo almacén de liquidaciones diarias. center_key '' representa el consolidado.
type SettlementRepo struct {
	q Querier
}

// NewSettlementRepository construye el adaptador.
func NewSettlementRepository(q Querier) *SettlementRepo {
	return &SettlementRepo{q: q}
}

const settlementColumns = `id, company_id, settlement_date, center_key,
	total_wholesale_in_kg, total_wholesale_in_price, total_retail_out_kg, total_retail_out_price,
	discrepancy_in_kg, discrepancy_out_kg, total_in_kg, total_out_kg, inputs_digest, created_at, updated_at`

// Get devuelve (nil, nil) si la liquidación no se ha calculado.
func (r *SettlementRepo) Get(ctx context.Context, companyID string, date time.Time, centerID string) (*entity.DailySettlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM daily_settlements WHERE company_id = $1 AND settlement_date = $2 AND center_key = $3`
	s, err := scanSettlement(r.q.QueryRow(ctx, query, companyID, entity.NormalizeDate(date), centerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settlement: %w", err)
	}
	return s, nil
}

// Upsert inserta o reemplaza la liquidación de (empresa, fecha, centro). Conserva id y created_at
// del registro existente.
func (r *SettlementRepo) Upsert(ctx context.Context, s *entity.DailySettlement) error {
	query := `
		INSERT INTO daily_settlements (` + settlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (company_id, settlement_date, center_key) DO UPDATE SET
			total_wholesale_in_kg = EXCLUDED.total_wholesale_in_kg,
			total_wholesale_in_price = EXCLUDED.total_wholesale_in_price,
			total_retail_out_kg = EXCLUDED.total_retail_out_kg,
			total_retail_out_price = EXCLUDED.total_retail_out_price,
			discrepancy_in_kg = EXCLUDED.discrepancy_in_kg,
			discrepancy_out_kg = EXCLUDED.discrepancy_out_kg,
			total_in_kg = EXCLUDED.total_in_kg,
			total_out_kg = EXCLUDED.total_out_kg,
			inputs_digest = EXCLUDED.inputs_digest,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, entity.NormalizeDate(s.Date), s.CenterKey(),
		s.TotalWholesaleInKg, s.TotalWholesaleInPrice, s.TotalRetailOutKg, s.TotalRetailOutPrice,
		s.DiscrepancyInKg, s.DiscrepancyOutKg, s.TotalInKg, s.TotalOutKg,
		s.InputsDigest, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settlement: %w", err)
	}
	return nil
}

// ListRange liquidaciones de [from, to]; centerID vacío incluye todos los centros y el consolidado.
func (r *SettlementRepo) ListRange(ctx context.Context, companyID string, from, to time.Time, centerID string) ([]entity.DailySettlement, error) {
	query := `SELECT ` + settlementColumns + `
		FROM daily_settlements WHERE company_id = $1 AND settlement_date BETWEEN $2 AND $3`
	args := []any{companyID, entity.NormalizeDate(from), entity.NormalizeDate(to)}
	if centerID != "" {
		query += " AND center_key = $4"
		args = append(args, centerID)
	}
	query += " ORDER BY settlement_date, center_key"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	defer rows.Close()
	list := []entity.DailySettlement{}
	for rows.Next() {
		s, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

// Delete borra la liquidación si existe.
func (r *SettlementRepo) Delete(ctx context.Context, companyID string, date time.Time, centerID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM daily_settlements WHERE company_id = $1 AND settlement_date = $2 AND center_key = $3`,
		companyID, entity.NormalizeDate(date), centerID)
	if err != nil {
		return fmt.Errorf("delete settlement: %w", err)
	}
	return nil
}

func scanSettlement(row pgx.Row) (*entity.DailySettlement, error) {
	var s entity.DailySettlement
	var centerKey string
	if err := row.Scan(&s.ID, &s.CompanyID, &s.Date, &centerKey,
		&s.TotalWholesaleInKg, &s.TotalWholesaleInPrice, &s.TotalRetailOutKg, &s.TotalRetailOutPrice,
		&s.DiscrepancyInKg, &s.DiscrepancyOutKg, &s.TotalInKg, &s.TotalOutKg,
		&s.InputsDigest, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.CenterID = entity.CenterPtr(centerKey)
	return &s, nil
}
