package entity

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
)

// Escala máxima almacenable: kg con 3 decimales (gramos) y valores con 2 (centavos).
const (
	KgDecimals    int32 = 3
	PriceDecimals int32 = 2
)

// CheckScale rechaza valores con más decimales de los permitidos; nunca se redondea en silencio.
func CheckScale(field string, v decimal.Decimal, places int32) error {
	if !v.Equal(v.Truncate(places)) {
		return domain.NewValidationError(field, "%s excede %d decimales", v.String(), places)
	}
	return nil
}

// CheckName rechaza nombres o IDs con caracteres de control.
func CheckName(field, s string) error {
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return domain.NewValidationError(field, "contiene caracteres de control: %q", s)
	}
	return nil
}
