package checkout

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Receipt is the handoff payload for the order-record view after a
// successful submission.
type Receipt struct {
	OrderIDs        []uuid.UUID         `json:"order_ids"`
	TrackingNumber  string              `json:"tracking_number"`
	CustomerAddress string              `json:"customer_address"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	Total           decimal.Decimal     `json:"total"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
}

// QueryParams encodes the receipt as the six query parameters the
// order-record page reads. Money is always two decimal places.
func (r Receipt) QueryParams() url.Values {
	ids := make([]string, 0, len(r.OrderIDs))
	for _, id := range r.OrderIDs {
		ids = append(ids, id.String())
	}

	values := url.Values{}
	values.Set("orderids", strings.Join(ids, ","))
	values.Set("tracking_number", r.TrackingNumber)
	values.Set("customerAddress", r.CustomerAddress)
	values.Set("subtotal", r.Subtotal.StringFixed(2))
	values.Set("deliveryFee", r.DeliveryFee.StringFixed(2))
	values.Set("total", r.Total.StringFixed(2))
	values.Set("paymentMethod", string(r.PaymentMethod))
	return values
}

// Path builds the full receipt destination, e.g. "/order-record?orderids=...".
func (r Receipt) Path(base string) string {
	return base + "?" + r.QueryParams().Encode()
}
