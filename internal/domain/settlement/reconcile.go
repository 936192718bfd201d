// Package settlement concilia las entradas mayoristas y salidas minoristas de un (día, centro)
// contra la variación registrada en inventario y produce la liquidación diaria.
//
// Fórmulas:
//
//	TotalInKg        = WholesaleIn.Quantity + OtherInKg
//	TotalOutKg       = RetailOut.Quantity + OtherOutKg
//	DiscrepancyInKg  = TotalInKg  - InventoryIncreaseKg
//	DiscrepancyOutKg = TotalOutKg - InventoryDecreaseKg
//
// Los precios se copian de lo recibido; este paquete no valoriza nada.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// Totals volumen y valor de un flujo (nivel bucket).
type Totals struct {
	Quantity decimal.Decimal // kg
	Price    decimal.Decimal // valor total
}

// Input entradas de la conciliación para un (fecha, centro). CenterID vacío = consolidado.
// Los campos decimales en cero valor cuentan como 0.
type Input struct {
	Date      time.Time
	CompanyID string
	CenterID  string

	WholesaleIn Totals
	RetailOut   Totals
	OtherInKg   decimal.Decimal
	OtherOutKg  decimal.Decimal

	// Variación de inventario registrada entre el snapshot del día y el siguiente.
	InventoryIncreaseKg decimal.Decimal
	InventoryDecreaseKg decimal.Decimal
}

// Validate rechaza volúmenes o precios negativos: por construcción no existen.
func (in Input) Validate() error {
	if in.Date.IsZero() {
		return domain.NewValidationError("date", "requerida")
	}
	checks := []struct {
		field  string
		v      decimal.Decimal
		places int32
	}{
		{"wholesale_in.total_quantity", in.WholesaleIn.Quantity, entity.KgDecimals},
		{"wholesale_in.total_price", in.WholesaleIn.Price, entity.PriceDecimals},
		{"retail_out.total_quantity", in.RetailOut.Quantity, entity.KgDecimals},
		{"retail_out.total_price", in.RetailOut.Price, entity.PriceDecimals},
		{"other_in_kg", in.OtherInKg, entity.KgDecimals},
		{"other_out_kg", in.OtherOutKg, entity.KgDecimals},
		{"inventory_increase_kg", in.InventoryIncreaseKg, entity.KgDecimals},
		{"inventory_decrease_kg", in.InventoryDecreaseKg, entity.KgDecimals},
	}
	for _, c := range checks {
		if c.v.IsNegative() {
			return domain.NewValidationError(c.field, "valor negativo %s", c.v.String())
		}
		if err := entity.CheckScale(c.field, c.v, c.places); err != nil {
			return err
		}
	}
	return nil
}

// Reconcile calcula la liquidación diaria. Sin actividad todos los campos valen 0: el registro
// existe igual. El ID y las marcas de tiempo los asigna quien persiste el registro.
func Reconcile(in Input) (*entity.DailySettlement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	totalIn := orZero(in.WholesaleIn.Quantity).Add(orZero(in.OtherInKg))
	totalOut := orZero(in.RetailOut.Quantity).Add(orZero(in.OtherOutKg))

	s := &entity.DailySettlement{
		Date:                  entity.NormalizeDate(in.Date),
		CompanyID:             in.CompanyID,
		CenterID:              entity.CenterPtr(in.CenterID),
		TotalWholesaleInKg:    orZero(in.WholesaleIn.Quantity),
		TotalWholesaleInPrice: orZero(in.WholesaleIn.Price),
		TotalRetailOutKg:      orZero(in.RetailOut.Quantity),
		TotalRetailOutPrice:   orZero(in.RetailOut.Price),
		TotalInKg:             totalIn,
		TotalOutKg:            totalOut,
		DiscrepancyInKg:       totalIn.Sub(orZero(in.InventoryIncreaseKg)),
		DiscrepancyOutKg:      totalOut.Sub(orZero(in.InventoryDecreaseKg)),
		InputsDigest:          Digest(in),
	}
	if err := s.CheckTotals(); err != nil {
		return nil, err
	}
	return s, nil
}

// orZero normaliza el valor cero de decimal.Decimal para que las comparaciones con Equal y la
// serialización sean uniformes.
func orZero(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}
