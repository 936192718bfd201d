package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// Flows totales de movimientos valorizados de un (día, centro) por canal.
type Flows struct {
	WholesaleIn Totals
	RetailOut   Totals
	OtherInKg   decimal.Decimal
	OtherOutKg  decimal.Decimal
}

// SumTransactions suma las líneas valorizadas por canal. Rechaza cantidades o precios negativos
// y canales desconocidos.
func SumTransactions(lines []entity.PricedTransaction) (Flows, error) {
	f := Flows{
		WholesaleIn: Totals{Quantity: decimal.Zero, Price: decimal.Zero},
		RetailOut:   Totals{Quantity: decimal.Zero, Price: decimal.Zero},
		OtherInKg:   decimal.Zero,
		OtherOutKg:  decimal.Zero,
	}
	for _, l := range lines {
		if l.QuantityKg.IsNegative() {
			return Flows{}, domain.NewValidationError("quantity_kg", "cantidad negativa en %s", l.Reference)
		}
		if l.Price.IsNegative() {
			return Flows{}, domain.NewValidationError("price", "precio negativo en %s", l.Reference)
		}
		if err := entity.CheckScale("quantity_kg", l.QuantityKg, entity.KgDecimals); err != nil {
			return Flows{}, err
		}
		if err := entity.CheckScale("price", l.Price, entity.PriceDecimals); err != nil {
			return Flows{}, err
		}
		switch l.Channel {
		case entity.ChannelWholesaleIn:
			f.WholesaleIn.Quantity = f.WholesaleIn.Quantity.Add(l.QuantityKg)
			f.WholesaleIn.Price = f.WholesaleIn.Price.Add(l.Price)
		case entity.ChannelRetailOut:
			f.RetailOut.Quantity = f.RetailOut.Quantity.Add(l.QuantityKg)
			f.RetailOut.Price = f.RetailOut.Price.Add(l.Price)
		case entity.ChannelOtherIn:
			f.OtherInKg = f.OtherInKg.Add(l.QuantityKg)
		case entity.ChannelOtherOut:
			f.OtherOutKg = f.OtherOutKg.Add(l.QuantityKg)
		default:
			return Flows{}, domain.NewValidationError("channel", "canal desconocido %q", l.Channel)
		}
	}
	return f, nil
}

// Apply copia los flujos sobre la entrada de conciliación.
func (f Flows) Apply(in *Input) {
	in.WholesaleIn = f.WholesaleIn
	in.RetailOut = f.RetailOut
	in.OtherInKg = f.OtherInKg
	in.OtherOutKg = f.OtherOutKg
}
