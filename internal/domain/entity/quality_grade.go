package entity

import (
	"strings"

	"github.com/jhoicas/acopio-api/internal/domain"
)

// QualityGrade calidad de la cosecha. Determina el nivel de precio; para la agregación
// solo actúa como llave de agrupación.
type QualityGrade string

// Calidades conocidas, en orden (A es la mejor).
const (
	GradeA QualityGrade = "A"
	GradeB QualityGrade = "B"
	GradeC QualityGrade = "C"
)

// gradeRank registro ordenado de calidades válidas. Para agregar una calidad nueva basta
// con añadirla al final.
var gradeRank = map[QualityGrade]int{
	GradeA: 0,
	GradeB: 1,
	GradeC: 2,
}

// ParseQualityGrade convierte un texto ("a", " B ") en QualityGrade.
// Un valor desconocido es un error de validación, nunca se deja pasar.
func ParseQualityGrade(s string) (QualityGrade, error) {
	g := QualityGrade(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", domain.NewValidationError("quality_grade", "calidad desconocida %q", s)
	}
	return g, nil
}

// Valid indica si la calidad está registrada.
func (g QualityGrade) Valid() bool {
	_, ok := gradeRank[g]
	return ok
}

// Rank posición de la calidad en el orden A < B < C. Las calidades desconocidas van al final.
func (g QualityGrade) Rank() int {
	if r, ok := gradeRank[g]; ok {
		return r
	}
	return len(gradeRank)
}

func (g QualityGrade) String() string { return string(g) }

// QualityGrades devuelve las calidades registradas en orden.
func QualityGrades() []QualityGrade {
	out := make([]QualityGrade, len(gradeRank))
	for g, r := range gradeRank {
		out[r] = g
	}
	return out
}
