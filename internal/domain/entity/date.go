package entity

import (
	"time"

	"github.com/jhoicas/acopio-api/internal/domain"
)

// DateLayout formato de fecha de calendario usado en llaves, query params y reportes.
const DateLayout = "2006-01-02"

// NormalizeDate trunca t a su fecha de calendario (medianoche UTC). La hora no tiene semántica:
// dos instantes del mismo día producen el mismo valor.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compara dos fechas solo por año, mes y día.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateKey representación canónica YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate interpreta YYYY-MM-DD. Un texto mal formado es un error de validación.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "fecha mal formada %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}
