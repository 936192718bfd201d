package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
)

// InventoryItem línea de inventario: un cultivo, una calidad y una cantidad en kg.
// SnapshotID es solo una referencia al snapshot dueño; el centro se hereda del snapshot.
type InventoryItem struct {
	ID           string
	SnapshotID   string
	CropName     string
	QualityGrade QualityGrade
	Quantity     decimal.Decimal // kg, >= 0
	CreatedAt    time.Time
}

// HasStock indica si la línea representa existencias. Una línea en cero es válida
// (registro puesto a cero) pero no cuenta como stock.
func (i InventoryItem) HasStock() bool {
	return i.Quantity.IsPositive()
}

// Validate verifica los invariantes de la línea.
func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.CropName) == "" {
		return domain.NewValidationError("crop_name", "requerido")
	}
	if err := CheckName("crop_name", i.CropName); err != nil {
		return err
	}
	if !i.QualityGrade.Valid() {
		return domain.NewValidationError("quality_grade", "calidad desconocida %q", string(i.QualityGrade))
	}
	if i.Quantity.IsNegative() {
		return domain.NewValidationError("quantity", "cantidad negativa %s para %s/%s", i.Quantity.String(), i.CropName, i.QualityGrade)
	}
	return CheckScale("quantity", i.Quantity, KgDecimals)
}
