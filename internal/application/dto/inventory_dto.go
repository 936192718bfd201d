package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngestSnapshotRequest body para POST /api/inventory/snapshots.
type IngestSnapshotRequest struct {
	Date     string              `json:"date" validate:"required,datetime=2006-01-02"`
	CenterID string              `json:"center_id" validate:"required,max=64"`
	Items    []IngestItemRequest `json:"items" validate:"required,min=1,dive"`
}

// IngestItemRequest línea del snapshot. La calidad se valida contra el registro de calidades.
type IngestItemRequest struct {
	CropName     string          `json:"crop_name" validate:"required,max=120"`
	QualityGrade string          `json:"quality_grade" validate:"required,max=8"`
	Quantity     decimal.Decimal `json:"quantity"` // kg, >= 0
}

// CorrectItemRequest body para PATCH /api/inventory/snapshots/:id/items/:itemId.
type CorrectItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// SnapshotItemResponse línea de un snapshot.
type SnapshotItemResponse struct {
	ID           string          `json:"id"`
	CropName     string          `json:"crop_name"`
	QualityGrade string          `json:"quality_grade"`
	Quantity     decimal.Decimal `json:"quantity"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SnapshotResponse salida de un snapshot con sus líneas.
type SnapshotResponse struct {
	ID            string                 `json:"id"`
	Date          string                 `json:"date"`
	CenterID      string                 `json:"center_id"`
	CompanyID     string                 `json:"company_id"`
	Items         []SnapshotItemResponse `json:"items"`
	TotalQuantity decimal.Decimal        `json:"total_quantity"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// AggregateRequest query params de GET /api/inventory/aggregate.
// Date, CenterID, CropName y QualityGrade son filtros de igualdad; From/To acotan la carga de snapshots.
type AggregateRequest struct {
	GroupBy      string `query:"group_by"` // lista separada por comas: crop_name,quality_grade,center_id,date
	Date         string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	CenterID     string `query:"center_id"`
	CropName     string `query:"crop_name"`
	QualityGrade string `query:"quality_grade"`
	From         string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// BucketDTO bucket agregado. Los campos de llave no agrupados se omiten.
// CenterBreakdown se incluye cuando la agregación abarca más de un centro.
type BucketDTO struct {
	CropName          string                     `json:"crop_name,omitempty"`
	QualityGrade      string                     `json:"quality_grade,omitempty"`
	CenterID          string                     `json:"center_id,omitempty"`
	Date              string                     `json:"date,omitempty"`
	TotalQuantity     decimal.Decimal            `json:"total_quantity"`
	CenterBreakdown   map[string]decimal.Decimal `json:"center_breakdown,omitempty"`
	SourceCenterCount int                        `json:"source_center_count"`
}

// AggregationResponse resultado de GET /api/inventory/aggregate.
type AggregationResponse struct {
	GroupBy       []string        `json:"group_by"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Centers       []string        `json:"centers"`
	Buckets       []BucketDTO     `json:"buckets"`
}

// CenterColumnDTO columna de centro en la tabla consolidada.
type CenterColumnDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RollupResponse vista consolidada "todos los centros, una fecha". Cada fila trae todas las
// columnas de centro (en cero si el centro no aporta).
type RollupResponse struct {
	Date          string            `json:"date"`
	Centers       []CenterColumnDTO `json:"centers"`
	Rows          []BucketDTO       `json:"rows"`
	TotalQuantity decimal.Decimal   `json:"total_quantity"`
}
