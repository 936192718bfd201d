package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
)

// InventorySnapshot inventario de un centro de acopio en una fecha (unidad de ingesta).
// Las líneas pertenecen exclusivamente al snapshot: al borrarlo se borran sus líneas.
// Se permiten líneas repetidas de (cultivo, calidad); la agregación las suma.
type InventorySnapshot struct {
	ID        string
	Date      time.Time // fecha de calendario; se compara con SameDay
	CenterID  string
	CompanyID string
	Items     []InventoryItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate verifica el snapshot y cada una de sus líneas.
func (s InventorySnapshot) Validate() error {
	if strings.TrimSpace(s.CenterID) == "" {
		return domain.NewValidationError("center_id", "requerido (snapshot %s)", s.ID)
	}
	if err := CheckName("center_id", s.CenterID); err != nil {
		return err
	}
	if s.Date.IsZero() {
		return domain.NewValidationError("date", "requerida (snapshot %s)", s.ID)
	}
	for _, it := range s.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalQuantity suma de todas las líneas del snapshot.
func (s InventorySnapshot) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Quantity)
	}
	return total
}

// Correct reemplaza la cantidad de una línea (corrección explícita) y actualiza UpdatedAt.
func (s *InventorySnapshot) Correct(itemID string, qty decimal.Decimal, now time.Time) error {
	if qty.IsNegative() {
		return domain.NewValidationError("quantity", "cantidad negativa %s", qty.String())
	}
	if err := CheckScale("quantity", qty, KgDecimals); err != nil {
		return err
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			s.Items[i].Quantity = qty
			s.UpdatedAt = now
			return nil
		}
	}
	return domain.ErrNotFound
}
