package sales

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/taller-pro/internal/domain"
)

// IVA tasa de impuesto al valor agregado (16 %).
var IVA = decimal.NewFromFloat(0.16)

var oneHundred = decimal.NewFromInt(100)

// Totals desglose monetario de la venta.
// Leyes: Tax == max(0, Subtotal - DiscountAmount) * 0.16 y
// Total == max(0, Subtotal - DiscountAmount + Tax).
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals aplica el descuento global al subtotal y calcula IVA y total.
// Con discountPercent el descuento debe estar en [0,100]; plano, debe ser
// >= 0 y se recorta al subtotal. Fuera de rango: ErrInvalidDiscount.
func ComputeTotals(subtotal, discount decimal.Decimal, discountPercent bool) (Totals, error) {
	var discountAmount decimal.Decimal
	if discountPercent {
		if discount.LessThan(decimal.Zero) || discount.GreaterThan(oneHundred) {
			return Totals{}, domain.ErrInvalidDiscount
		}
		discountAmount = subtotal.Mul(discount).Div(oneHundred)
	} else {
		if discount.LessThan(decimal.Zero) {
			return Totals{}, domain.ErrInvalidDiscount
		}
		discountAmount = discount
		if discountAmount.GreaterThan(subtotal) {
			discountAmount = subtotal
		}
	}

	base := subtotal.Sub(discountAmount)
	if base.LessThan(decimal.Zero) {
		base = decimal.Zero
	}
	tax := base.Mul(IVA)
	total := base.Add(tax)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Tax:            tax,
		Total:          total,
	}, nil
}
