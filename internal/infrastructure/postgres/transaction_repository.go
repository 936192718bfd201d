package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo lectura de líneas valorizadas de contratos y despachos.
// Las escriben los módulos de contratos; este servicio solo las suma.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// ListByDay líneas de la empresa en la fecha. centerID vacío = todos los centros.
func (r *TransactionRepo) ListByDay(ctx context.Context, companyID, centerID string, date time.Time) ([]entity.PricedTransaction, error) {
	query := `
		SELECT id, company_id, center_id, tx_date, channel, reference, crop_name, quality_grade, quantity_kg, price, created_at
		FROM priced_transactions WHERE company_id = $1 AND tx_date = $2`
	args := []any{companyID, entity.NormalizeDate(date)}
	if centerID != "" {
		query += " AND center_id = $3"
		args = append(args, centerID)
	}
	query += " ORDER BY created_at, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list priced transactions: %w", err)
	}
	defer rows.Close()
	list := []entity.PricedTransaction{}
	for rows.Next() {
		var t entity.PricedTransaction
		var grade string
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.CenterID, &t.Date, &t.Channel, &t.Reference,
			&t.CropName, &grade, &t.QuantityKg, &t.Price, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan priced transaction: %w", err)
		}
		t.QualityGrade = entity.QualityGrade(grade)
		list = append(list, t)
	}
	return list, rows.Err()
}
