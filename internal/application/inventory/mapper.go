package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/application/dto"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/inventory"
)

func toSnapshotResponse(s *entity.InventorySnapshot) *dto.SnapshotResponse {
	out := &dto.SnapshotResponse{
		ID:            s.ID,
		Date:          entity.DateKey(s.Date),
		CenterID:      s.CenterID,
		CompanyID:     s.CompanyID,
		Items:         make([]dto.SnapshotItemResponse, 0, len(s.Items)),
		TotalQuantity: s.TotalQuantity(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SnapshotItemResponse{
			ID:           it.ID,
			CropName:     it.CropName,
			QualityGrade: it.QualityGrade.String(),
			Quantity:     it.Quantity,
			CreatedAt:    it.CreatedAt,
		})
	}
	return out
}

func toBucketDTO(b inventory.AggregatedBucket, withBreakdown bool) dto.BucketDTO {
	out := dto.BucketDTO{
		CropName:          b.Key.CropName,
		QualityGrade:      b.Key.QualityGrade.String(),
		CenterID:          b.Key.CenterID,
		TotalQuantity:     b.TotalQuantity,
		SourceCenterCount: b.SourceCenterCount,
	}
	if b.Key.Fields.Has(inventory.DimDate) {
		out.Date = entity.DateKey(b.Key.Date)
	}
	if withBreakdown {
		out.CenterBreakdown = make(map[string]decimal.Decimal, len(b.CenterBreakdown))
		for c, q := range b.CenterBreakdown {
			out.CenterBreakdown[c] = q
		}
	}
	return out
}
