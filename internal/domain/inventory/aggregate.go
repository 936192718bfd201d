// Package inventory contiene el motor puro de filtrado y agregación de inventario por
// (cultivo, calidad, centro, fecha). No hace I/O ni guarda estado global: recibe los snapshots
// ya cargados y devuelve estructuras nuevas, por lo que puede llamarse concurrentemente
// siempre que nadie modifique los snapshots durante la llamada.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// AggregatedBucket resultado de agregar las líneas que comparten una AggregationKey.
//
// CenterBreakdown siempre se llena (aunque el centro no sea dimensión de agrupación) para
// permitir el detalle por centro. SourceCenterCount cuenta solo centros con aporte distinto de
// cero: un centro cuyas únicas líneas en el bucket valen 0 no "tiene stock" en él.
type AggregatedBucket struct {
	Key               AggregationKey
	TotalQuantity     decimal.Decimal
	CenterBreakdown   map[string]decimal.Decimal
	SourceCenterCount int
}

// Engine motor de agregación. El idioma define la comparación de nombres al ordenar.
type Engine struct {
	tag language.Tag
}

// NewEngine construye el motor para el idioma dado (p. ej. language.Spanish).
func NewEngine(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

var defaultEngine = NewEngine(language.Spanish)

// Aggregate agrega con el motor por defecto (español).
func Aggregate(snapshots []entity.InventorySnapshot, groupBy GroupBy, criteria FilterCriteria) ([]AggregatedBucket, error) {
	return defaultEngine.Aggregate(snapshots, groupBy, criteria)
}

// Aggregate filtra snapshots y líneas, agrupa por groupBy y devuelve los buckets ordenados por
// (cultivo, calidad, centro, fecha).
//
// Valida todas las entradas antes de empezar: ante un error no se devuelve ningún bucket parcial.
// Sin snapshots (o sin líneas que pasen el filtro) el resultado es un slice vacío, no un error.
// Con groupBy vacío se produce un único bucket global.
func (e *Engine) Aggregate(snapshots []entity.InventorySnapshot, groupBy GroupBy, criteria FilterCriteria) ([]AggregatedBucket, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	for _, s := range snapshots {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	acc := make(map[string]*AggregatedBucket)
	for _, s := range Filter(snapshots, criteria) {
		for _, it := range FilterItems(s.Items, criteria) {
			key := projectKey(groupBy, s, it)
			enc := key.Encode()
			b, ok := acc[enc]
			if !ok {
				b = &AggregatedBucket{
					Key:             key,
					TotalQuantity:   decimal.Zero,
					CenterBreakdown: make(map[string]decimal.Decimal),
				}
				acc[enc] = b
			}
			b.TotalQuantity = b.TotalQuantity.Add(it.Quantity)
			partial, ok := b.CenterBreakdown[s.CenterID]
			if !ok {
				partial = decimal.Zero
			}
			b.CenterBreakdown[s.CenterID] = partial.Add(it.Quantity)
		}
	}

	out := make([]AggregatedBucket, 0, len(acc))
	for _, b := range acc {
		b.SourceCenterCount = countStockedCenters(b.CenterBreakdown)
		out = append(out, *b)
	}
	e.sortBuckets(out)
	return out, nil
}

func countStockedCenters(breakdown map[string]decimal.Decimal) int {
	n := 0
	for _, q := range breakdown {
		if !q.IsZero() {
			n++
		}
	}
	return n
}

// sortBuckets ordena por los campos agrupados en el orden fijo. El collator no es seguro para
// uso concurrente, por eso se crea en cada llamada.
func (e *Engine) sortBuckets(buckets []AggregatedBucket) {
	col := e.collator()
	sort.Slice(buckets, func(i, j int) bool {
		return compareKeys(col, buckets[i].Key, buckets[j].Key) < 0
	})
}

func (e *Engine) collator() *collate.Collator {
	return collate.New(e.tag, collate.Numeric)
}

func compareKeys(col *collate.Collator, a, b AggregationKey) int {
	for _, d := range dimensionOrder {
		if !a.Fields.Has(d) {
			continue
		}
		var c int
		switch d {
		case DimCropName:
			c = compareNames(col, a.CropName, b.CropName)
		case DimQualityGrade:
			c = compareInts(a.QualityGrade.Rank(), b.QualityGrade.Rank())
			if c == 0 {
				c = compareStrings(string(a.QualityGrade), string(b.QualityGrade))
			}
		case DimCenterID:
			c = compareNames(col, a.CenterID, b.CenterID)
		case DimDate:
			c = a.Date.Compare(b.Date)
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// compareNames compara según el idioma; si el collator los considera iguales desempata por
// bytes para que el orden sea siempre reproducible.
func compareNames(col *collate.Collator, a, b string) int {
	if c := col.CompareString(a, b); c != 0 {
		return c
	}
	return compareStrings(a, b)
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SumTotals suma TotalQuantity de varios buckets.
func SumTotals(buckets []AggregatedBucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.TotalQuantity)
	}
	return total
}
