package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// Dimension campo por el que se puede agrupar.
type Dimension uint8

const (
	DimCropName Dimension = 1 << iota
	DimQualityGrade
	DimCenterID
	DimDate
)

// dimensionOrder orden fijo de los campos: define la llave canónica y el orden de salida.
var dimensionOrder = []Dimension{DimCropName, DimQualityGrade, DimCenterID, DimDate}

var dimensionNames = map[Dimension]string{
	DimCropName:     "crop_name",
	DimQualityGrade: "quality_grade",
	DimCenterID:     "center_id",
	DimDate:         "date",
}

func (d Dimension) String() string {
	if n, ok := dimensionNames[d]; ok {
		return n
	}
	return "unknown"
}

// GroupBy conjunto de dimensiones de agrupación. El conjunto vacío produce un único bucket global.
type GroupBy uint8

// NewGroupBy construye el conjunto con las dimensiones dadas.
func NewGroupBy(dims ...Dimension) GroupBy {
	var g GroupBy
	for _, d := range dims {
		g |= GroupBy(d)
	}
	return g
}

// Has indica si la dimensión pertenece al conjunto.
func (g GroupBy) Has(d Dimension) bool {
	return g&GroupBy(d) != 0
}

// Dimensions devuelve las dimensiones del conjunto en el orden fijo.
func (g GroupBy) Dimensions() []Dimension {
	out := make([]Dimension, 0, len(dimensionOrder))
	for _, d := range dimensionOrder {
		if g.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (g GroupBy) String() string {
	names := make([]string, 0, len(dimensionOrder))
	for _, d := range g.Dimensions() {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

// ParseGroupBy interpreta nombres de dimensión ("crop_name", "quality_grade", "center_id", "date").
// Los nombres vacíos se ignoran; uno desconocido es un error de validación.
func ParseGroupBy(names []string) (GroupBy, error) {
	var g GroupBy
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		found := false
		for d, n := range dimensionNames {
			if n == name {
				g |= GroupBy(d)
				found = true
				break
			}
		}
		if !found {
			return 0, domain.NewValidationError("group_by", "dimensión desconocida %q", name)
		}
	}
	return g, nil
}

// AggregationKey valores de las dimensiones agrupadas. Los campos fuera de Fields son comodines
// y quedan en su valor cero.
type AggregationKey struct {
	Fields       GroupBy
	CropName     string
	QualityGrade entity.QualityGrade
	CenterID     string
	Date         time.Time
}

// projectKey proyecta (snapshot, línea) sobre las dimensiones de g.
func projectKey(g GroupBy, s entity.InventorySnapshot, it entity.InventoryItem) AggregationKey {
	k := AggregationKey{Fields: g}
	if g.Has(DimCropName) {
		k.CropName = it.CropName
	}
	if g.Has(DimQualityGrade) {
		k.QualityGrade = it.QualityGrade
	}
	if g.Has(DimCenterID) {
		k.CenterID = s.CenterID
	}
	if g.Has(DimDate) {
		k.Date = entity.NormalizeDate(s.Date)
	}
	return k
}

// Encode representación canónica de la llave. Cada campo va prefijado con su longitud, así dos
// líneas se agregan juntas si y solo si todos sus campos agrupados son iguales.
func (k AggregationKey) Encode() string {
	var b strings.Builder
	for _, d := range dimensionOrder {
		if !k.Fields.Has(d) {
			b.WriteString("-;")
			continue
		}
		var v string
		switch d {
		case DimCropName:
			v = k.CropName
		case DimQualityGrade:
			v = string(k.QualityGrade)
		case DimCenterID:
			v = k.CenterID
		case DimDate:
			v = entity.DateKey(k.Date)
		}
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
		b.WriteByte(';')
	}
	return b.String()
}
