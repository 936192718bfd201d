package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain/inventory"
)

// InventoryDelta compara dos agregaciones por (cultivo, calidad) del mismo centro (o empresa):
// la del día y la del día siguiente. Por cada línea, la diferencia positiva suma al aumento y la
// negativa al descenso. Una línea presente en un solo lado cuenta como 0 en el otro.
func InventoryDelta(before, after []inventory.AggregatedBucket) (increase, decrease decimal.Decimal) {
	increase, decrease = decimal.Zero, decimal.Zero

	prev := make(map[string]decimal.Decimal, len(before))
	for _, b := range before {
		k := lineKey(b.Key)
		prev[k] = prev[k].Add(b.TotalQuantity)
	}
	seen := make(map[string]struct{}, len(after))
	for _, a := range after {
		k := lineKey(a.Key)
		seen[k] = struct{}{}
		diff := a.TotalQuantity.Sub(prev[k])
		switch {
		case diff.IsPositive():
			increase = increase.Add(diff)
		case diff.IsNegative():
			decrease = decrease.Add(diff.Neg())
		}
	}
	for _, b := range before {
		if _, ok := seen[lineKey(b.Key)]; ok {
			continue
		}
		decrease = decrease.Add(b.TotalQuantity)
	}
	return increase, decrease
}

// lineKey llave (cultivo, calidad) independiente de las demás dimensiones del bucket.
func lineKey(k inventory.AggregationKey) string {
	return k.CropName + "\x1f" + string(k.QualityGrade)
}
