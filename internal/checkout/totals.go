package checkout

import (
	"github.com/lechonexpress/backend/internal/cart"
	"github.com/shopspring/decimal"
)

// Totals is the derived money summary for a cart. It is recomputed from the
// cart on demand and never stored.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals sums the cart lines and applies the flat delivery fee.
// Malformed lines (non-positive quantity, negative price) contribute zero
// so one bad entry does not block checkout of the rest.
func ComputeTotals(items []cart.Item, deliveryFee decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		if malformedLine(item) {
			continue
		}
		subtotal = subtotal.Add(item.LineTotal())
	}
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Add(deliveryFee),
	}
}

func malformedLine(item cart.Item) bool {
	return item.Quantity <= 0 || item.UnitPrice.IsNegative()
}

// validLines drops the lines ComputeTotals would skip. A submission is built
// from the same lines the subtotal was computed from, so one stale entry in
// redis cannot fail gateway validation for the rest of the cart.
func validLines(items []cart.Item) []cart.Item {
	valid := make([]cart.Item, 0, len(items))
	for _, item := range items {
		if malformedLine(item) {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}
