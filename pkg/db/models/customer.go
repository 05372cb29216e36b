package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a registered buyer with a stored delivery address.
type Customer struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email           string     `gorm:"column:email;not null;uniqueIndex"`
	Name            string     `gorm:"column:name;not null"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	DeliveryAddress string     `gorm:"column:delivery_address;not null;default:''"`
	LastLoginAt     *time.Time `gorm:"column:last_login_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
