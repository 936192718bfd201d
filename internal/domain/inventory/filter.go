package inventory

import (
	"time"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// FilterCriteria criterios de filtro, todos opcionales y de igualdad exacta (sin rangos).
// Date y CenterID filtran snapshots; CropName y QualityGrade filtran líneas.
type FilterCriteria struct {
	Date         *time.Time
	CenterID     string
	CropName     string
	QualityGrade entity.QualityGrade
}

// Validate rechaza criterios mal formados (calidad desconocida, fecha cero).
func (c FilterCriteria) Validate() error {
	if c.QualityGrade != "" && !c.QualityGrade.Valid() {
		return domain.NewValidationError("quality_grade", "calidad desconocida %q", string(c.QualityGrade))
	}
	if c.Date != nil && c.Date.IsZero() {
		return domain.NewValidationError("date", "fecha vacía")
	}
	return nil
}

// MatchSnapshot indica si el snapshot cumple los criterios de nivel snapshot.
func (c FilterCriteria) MatchSnapshot(s entity.InventorySnapshot) bool {
	if c.Date != nil && !entity.SameDay(*c.Date, s.Date) {
		return false
	}
	if c.CenterID != "" && c.CenterID != s.CenterID {
		return false
	}
	return true
}

// MatchItem indica si la línea cumple los criterios de nivel línea.
func (c FilterCriteria) MatchItem(it entity.InventoryItem) bool {
	if c.CropName != "" && c.CropName != it.CropName {
		return false
	}
	if c.QualityGrade != "" && c.QualityGrade != it.QualityGrade {
		return false
	}
	return true
}

// Filter devuelve una secuencia nueva con los snapshots que cumplen Date y CenterID.
// No modifica la entrada; las líneas de cada snapshot devuelto son una copia.
// Un resultado vacío es válido.
func Filter(snapshots []entity.InventorySnapshot, c FilterCriteria) []entity.InventorySnapshot {
	out := make([]entity.InventorySnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if !c.MatchSnapshot(s) {
			continue
		}
		cp := s
		cp.Items = append([]entity.InventoryItem(nil), s.Items...)
		out = append(out, cp)
	}
	return out
}

// FilterItems devuelve las líneas que cumplen CropName y QualityGrade, en el orden original.
// Permite consultar varios cortes de cultivo/calidad sobre los mismos snapshots sin volver a filtrarlos.
func FilterItems(items []entity.InventoryItem, c FilterCriteria) []entity.InventoryItem {
	out := make([]entity.InventoryItem, 0, len(items))
	for _, it := range items {
		if c.MatchItem(it) {
			out = append(out, it)
		}
	}
	return out
}
