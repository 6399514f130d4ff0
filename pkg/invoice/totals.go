// pkg/invoice/totals.go

package invoice

import "github.com/shopspring/decimal"

// Totals holds the figures derived from an Order. They are recomputed on
// every render and never stored on their own.
type Totals struct {
	Subtotal       decimal.Decimal
	DeliveryCharge decimal.Decimal
	Discount       decimal.Decimal
	FinalAmount    decimal.Decimal
	Advance        decimal.Decimal
	Balance        decimal.Decimal
}

// ComputeTotals derives the bill totals for an order.
//
// FinalAmount may be negative when the discount exceeds subtotal plus
// delivery charge. Balance is floored at zero.
func ComputeTotals(o Order) Totals {
	subtotal := decimal.Zero
	for _, item := range o.LineItems {
		subtotal = subtotal.Add(item.Total())
	}

	final := subtotal.Add(o.DeliveryCharge).Sub(o.Discount)

	balance := final.Sub(o.Advance)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return Totals{
		Subtotal:       subtotal,
		DeliveryCharge: o.DeliveryCharge,
		Discount:       o.Discount,
		FinalAmount:    final,
		Advance:        o.Advance,
		Balance:        balance,
	}
}

// WholeFinalAmount returns the final amount floored to whole currency units.
func (t Totals) WholeFinalAmount() decimal.Decimal {
	return t.FinalAmount.Floor()
}
