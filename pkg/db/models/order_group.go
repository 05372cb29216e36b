package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lechonexpress/backend/pkg/enums"
)

// OrderGroup captures one accepted checkout submission. The per-product-type
// orders hang off it and share its tracking number.
type OrderGroup struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	DeliveryAddress string              `gorm:"column:delivery_address;not null"`
	SubtotalAmount  decimal.Decimal     `gorm:"column:subtotal_amount;type:numeric;not null"`
	DeliveryFee     decimal.Decimal     `gorm:"column:delivery_fee;type:numeric;not null"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric;not null"`
	TrackingNumber  string              `gorm:"column:tracking_number;not null;uniqueIndex"`
	Orders          []Order             `gorm:"foreignKey:OrderGroupID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
