package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
)

// DailySettlement liquidación diaria de un centro (o de toda la empresa si CenterID es nil).
// Es derivada: se recalcula cuando cambian los snapshots o los movimientos valorizados de su
// (fecha, centro) y nunca se edita a mano. Todos los campos _kg valen cero cuando no hay actividad.
type DailySettlement struct {
	ID        string
	Date      time.Time
	CompanyID string
	CenterID  *string // nil = consolidado de la empresa

	TotalWholesaleInKg    decimal.Decimal
	TotalWholesaleInPrice decimal.Decimal
	TotalRetailOutKg      decimal.Decimal
	TotalRetailOutPrice   decimal.Decimal

	// DiscrepancyInKg > 0: llegó más de lo que se reflejó en inventario (pérdida).
	// DiscrepancyInKg < 0: el inventario creció más que las entradas registradas.
	DiscrepancyInKg  decimal.Decimal
	DiscrepancyOutKg decimal.Decimal

	TotalInKg  decimal.Decimal // mayorista + otros canales de entrada
	TotalOutKg decimal.Decimal // minorista + otros canales de salida

	InputsDigest string // huella de las entradas con las que se calculó
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CompanyWide indica si el registro es el consolidado de la empresa.
func (s *DailySettlement) CompanyWide() bool {
	return s.CenterID == nil
}

// CenterKey devuelve el centro o "" para el consolidado.
func (s *DailySettlement) CenterKey() string {
	if s.CenterID == nil {
		return ""
	}
	return *s.CenterID
}

// CacheKey llave del registro en el almacén de liquidaciones: fecha|centro ("*" = consolidado).
func (s *DailySettlement) CacheKey() string {
	return SettlementKey(s.CompanyID, s.Date, s.CenterKey())
}

// SettlementKey llave de caché para (empresa, fecha, centro). centerID vacío = consolidado.
func SettlementKey(companyID string, date time.Time, centerID string) string {
	if centerID == "" {
		centerID = "*"
	}
	return companyID + "|" + DateKey(date) + "|" + centerID
}

// CheckTotals verifica que los totales generales no sean menores que los de mayorista/minorista:
// los otros canales solo suman.
func (s *DailySettlement) CheckTotals() error {
	if s.TotalInKg.LessThan(s.TotalWholesaleInKg) {
		return domain.NewValidationError("total_in_kg", "%s menor que total_wholesale_in_kg %s",
			s.TotalInKg.String(), s.TotalWholesaleInKg.String())
	}
	if s.TotalOutKg.LessThan(s.TotalRetailOutKg) {
		return domain.NewValidationError("total_out_kg", "%s menor que total_retail_out_kg %s",
			s.TotalOutKg.String(), s.TotalRetailOutKg.String())
	}
	return nil
}

// CenterPtr devuelve nil para "" (consolidado) o un puntero al centro.
func CenterPtr(centerID string) *string {
	if centerID == "" {
		return nil
	}
	c := centerID
	return &c
}
