package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canales de movimiento valorizado (contratos y despachos).
const (
	ChannelWholesaleIn = "wholesale_in" // compra mayorista que ingresa al centro
	ChannelRetailOut   = "retail_out"   // venta minorista que sale del centro
	ChannelOtherIn     = "other_in"     // traslados, donaciones, devoluciones de cliente
	ChannelOtherOut    = "other_out"    // mermas declaradas, traslados salientes
)

// PricedTransaction línea valorizada de un contrato o despacho para un (día, centro).
// El precio lo asigna el sistema de contratos; aquí solo se suma.
type PricedTransaction struct {
	ID           string
	CompanyID    string
	CenterID     string
	Date         time.Time
	Channel      string // ver constantes Channel*
	Reference    string // número de contrato o despacho
	CropName     string
	QualityGrade QualityGrade
	QuantityKg   decimal.Decimal
	Price        decimal.Decimal // valor total de la línea
	CreatedAt    time.Time
}
