package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementación de SnapshotRepository sobre PostgreSQL (usable con pool o tx).
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador de snapshots. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// Create inserta el snapshot y sus líneas. Para que sea atómico debe ejecutarse dentro de TxRunner.
func (r *SnapshotRepo) Create(ctx context.Context, s *entity.InventorySnapshot) error {
	query := `
		INSERT INTO inventory_snapshots (id, company_id, center_id, snapshot_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, s.ID, s.CompanyID, s.CenterID, entity.NormalizeDate(s.Date), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("centro %s: %w", s.CenterID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO inventory_items (id, snapshot_id, line_no, crop_name, quality_grade, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, s.ID, i, it.CropName, string(it.QualityGrade), it.Quantity, it.CreatedAt)
	}
	if batch.Len() == 0 {
		return nil
	}
	br := r.q.SendBatch(ctx, batch)
	for range s.Items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert inventory item: %w", err)
		}
	}
	return br.Close()
}

// GetByID obtiene un snapshot con sus líneas; (nil, nil) si no existe.
func (r *SnapshotRepo) GetByID(ctx context.Context, id string) (*entity.InventorySnapshot, error) {
	query := `
		SELECT id, company_id, center_id, snapshot_date, created_at, updated_at
		FROM inventory_snapshots WHERE id = $1`
	var s entity.InventorySnapshot
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.CompanyID, &s.CenterID, &s.Date, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	items, err := r.loadItems(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return &s, nil
}

// List snapshots de la empresa en el rango (fechas inclusivas), ordenados por fecha y alta.
func (r *SnapshotRepo) List(ctx context.Context, q repository.SnapshotQuery) ([]entity.InventorySnapshot, error) {
	query := `
		SELECT id, company_id, center_id, snapshot_date, created_at, updated_at
		FROM inventory_snapshots WHERE company_id = $1`
	args := []any{q.CompanyID}
	pos := 2
	if q.From != nil {
		query += fmt.Sprintf(" AND snapshot_date >= $%d", pos)
		args = append(args, entity.NormalizeDate(*q.From))
		pos++
	}
	if q.To != nil {
		query += fmt.Sprintf(" AND snapshot_date <= $%d", pos)
		args = append(args, entity.NormalizeDate(*q.To))
		pos++
	}
	if q.CenterID != "" {
		query += fmt.Sprintf(" AND center_id = $%d", pos)
		args = append(args, q.CenterID)
	}
	query += " ORDER BY snapshot_date, created_at, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	list := []entity.InventorySnapshot{}
	ids := []string{}
	for rows.Next() {
		var s entity.InventorySnapshot
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.CenterID, &s.Date, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Items = items[list[i].ID]
	}
	return list, nil
}

func (r *SnapshotRepo) loadItems(ctx context.Context, snapshotIDs []string) (map[string][]entity.InventoryItem, error) {
	query := `
		SELECT id, snapshot_id, crop_name, quality_grade, quantity, created_at
		FROM inventory_items WHERE snapshot_id = ANY($1)
		ORDER BY snapshot_id, line_no`
	rows, err := r.q.Query(ctx, query, snapshotIDs)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.InventoryItem, len(snapshotIDs))
	for rows.Next() {
		var it entity.InventoryItem
		var grade string
		if err := rows.Scan(&it.ID, &it.SnapshotID, &it.CropName, &grade, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		it.QualityGrade = entity.QualityGrade(grade)
		out[it.SnapshotID] = append(out[it.SnapshotID], it)
	}
	return out, rows.Err()
}

// UpdateItemQuantity corrige la cantidad de una línea y actualiza updated_at del snapshot.
func (r *SnapshotRepo) UpdateItemQuantity(ctx context.Context, snapshotID, itemID string, qty decimal.Decimal, now time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE inventory_items SET quantity = $3 WHERE id = $2 AND snapshot_id = $1`, snapshotID, itemID, qty)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `UPDATE inventory_snapshots SET updated_at = $2 WHERE id = $1`, snapshotID, now); err != nil {
		return fmt.Errorf("touch snapshot: %w", err)
	}
	return nil
}

// Delete borra el snapshot; las líneas se borran en cascada.
func (r *SnapshotRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM inventory_snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
