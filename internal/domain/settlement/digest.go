package settlement

import (
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"

	"github.com/jhoicas/acopio-api/internal/domain/entity"
)

// Digest huella BLAKE2b-256 de las entradas. La liquidación es una función pura de sus entradas:
// si la huella guardada coincide, el registro almacenado está vigente y no se reescribe.
func Digest(in Input) string {
	parts := []string{
		in.CompanyID,
		entity.DateKey(in.Date),
		in.CenterID,
		canon(in.WholesaleIn.Quantity),
		canon(in.WholesaleIn.Price),
		canon(in.RetailOut.Quantity),
		canon(in.RetailOut.Price),
		canon(in.OtherInKg),
		canon(in.OtherOutKg),
		canon(in.InventoryIncreaseKg),
		canon(in.InventoryDecreaseKg),
	}
	sum := blake2b.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// canon forma canónica del decimal: 1.50 y 1.5 producen la misma huella.
func canon(d decimal.Decimal) string {
	return d.String()
}
