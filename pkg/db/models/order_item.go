package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lechonexpress/backend/pkg/enums"
)

// OrderItem is one priced line inside an order.
type OrderItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	PriceRef    string            `gorm:"column:price_ref;not null"`
	ProductType enums.ProductType `gorm:"column:product_type;type:text;not null"`
	Name        string            `gorm:"column:name;not null"`
	Quantity    int               `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}
