package cart

import (
	"github.com/lechonexpress/backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Item is one cart line as the storefront persisted it.
type Item struct {
	PriceRef    string            `json:"price_ref"`
	ProductType enums.ProductType `json:"product_type"`
	Name        string            `json:"name"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
}

// LineTotal returns unit price multiplied by quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
