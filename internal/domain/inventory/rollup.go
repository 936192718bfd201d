package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// RollupByCropGrade consolidado por cultivo y calidad con el motor por defecto.
func RollupByCropGrade(snapshots []entity.InventorySnapshot) ([]AggregatedBucket, error) {
	return defaultEngine.RollupByCropGrade(snapshots)
}

// RollupByCropGrade vista "todos los centros, una fecha": Aggregate con groupBy
// {cultivo, calidad} y sin filtro. Cada bucket trae CenterBreakdown con todos los centros
// presentes en la entrada (en cero si no aportan), así las tablas no rellenan columnas.
func (e *Engine) RollupByCropGrade(snapshots []entity.InventorySnapshot) ([]AggregatedBucket, error) {
	buckets, err := e.Aggregate(snapshots, NewGroupBy(DimCropName, DimQualityGrade), FilterCriteria{})
	if err != nil {
		return nil, err
	}
	centers := e.CenterIDs(snapshots)
	for i := range buckets {
		for _, c := range centers {
			if _, ok := buckets[i].CenterBreakdown[c]; !ok {
				buckets[i].CenterBreakdown[c] = decimal.Zero
			}
		}
	}
	return buckets, nil
}

// CenterIDs centros distintos presentes en los snapshots, ordenados (orden de columnas).
func CenterIDs(snapshots []entity.InventorySnapshot) []string {
	return defaultEngine.CenterIDs(snapshots)
}

// CenterIDs centros distintos presentes en los snapshots, ordenados según el idioma del motor.
func (e *Engine) CenterIDs(snapshots []entity.InventorySnapshot) []string {
	seen := make(map[string]struct{}, len(snapshots))
	out := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		if _, ok := seen[s.CenterID]; ok {
			continue
		}
		seen[s.CenterID] = struct{}{}
		out = append(out, s.CenterID)
	}
	e.sortNames(out)
	return out
}

// BucketCenterIDs centros que aparecen en el desglose de algún bucket, ordenados.
func (e *Engine) BucketCenterIDs(buckets []AggregatedBucket) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, b := range buckets {
		for c := range b.CenterBreakdown {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	e.sortNames(out)
	return out
}

func (e *Engine) sortNames(names []string) {
	col := e.collator()
	sort.Slice(names, func(i, j int) bool {
		return compareNames(col, names[i], names[j]) < 0
	})
}
