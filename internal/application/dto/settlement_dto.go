package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TotalsDTO totales de un flujo a nivel bucket.
type TotalsDTO struct {
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// ReconcileRequest body para POST /api/settlements/reconcile (conciliación sin estado).
// Los campos omitidos valen 0.
type ReconcileRequest struct {
	Date                string          `json:"date" validate:"required,datetime=2006-01-02"`
	CenterID            string          `json:"center_id,omitempty"` // vacío = consolidado
	WholesaleIn         TotalsDTO       `json:"wholesale_in"`
	RetailOut           TotalsDTO       `json:"retail_out"`
	OtherInKg           decimal.Decimal `json:"other_in_kg"`
	OtherOutKg          decimal.Decimal `json:"other_out_kg"`
	InventoryIncreaseKg decimal.Decimal `json:"inventory_increase_kg"`
	InventoryDecreaseKg decimal.Decimal `json:"inventory_decrease_kg"`
}

// DailySettlementResponse salida de una liquidación diaria. Todos los campos _kg están presentes
// (0 = sin actividad).
type DailySettlementResponse struct {
	ID                    string          `json:"id,omitempty"`
	Date                  string          `json:"date"`
	CompanyID             string          `json:"company_id"`
	CenterID              *string         `json:"center_id"` // null = consolidado
	TotalWholesaleInKg    decimal.Decimal `json:"total_wholesale_in_kg"`
	TotalWholesaleInPrice decimal.Decimal `json:"total_wholesale_in_price"`
	TotalRetailOutKg      decimal.Decimal `json:"total_retail_out_kg"`
	TotalRetailOutPrice   decimal.Decimal `json:"total_retail_out_price"`
	DiscrepancyInKg       decimal.Decimal `json:"discrepancy_in_kg"`
	DiscrepancyOutKg      decimal.Decimal `json:"discrepancy_out_kg"`
	TotalInKg             decimal.Decimal `json:"total_in_kg"`
	TotalOutKg            decimal.Decimal `json:"total_out_kg"`
	InputsDigest          string          `json:"inputs_digest"`
	CreatedAt             *time.Time      `json:"created_at,omitempty"`
	UpdatedAt             *time.Time      `json:"updated_at,omitempty"`
}

// SettlementListResponse liquidaciones de un rango de fechas.
type SettlementListResponse struct {
	Items []DailySettlementResponse `json:"items"`
	Total int                       `json:"total"`
}
