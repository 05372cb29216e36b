package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/lechonexpress/backend/pkg/db/models"
)

// CustomerDTO is the transport shape that omits sensitive credentials.
type CustomerDTO struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	DeliveryAddress string     `json:"delivery_address"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CreateCustomerDTO holds the data required by the repo to persist a new customer.
type CreateCustomerDTO struct {
	Email           string
	Name            string
	PasswordHash    string
	DeliveryAddress string
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}

	return &CustomerDTO{
		ID:              c.ID,
		Email:           c.Email,
		Name:            c.Name,
		DeliveryAddress: c.DeliveryAddress,
		LastLoginAt:     c.LastLoginAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (c CreateCustomerDTO) ToModel() *models.Customer {
	return &models.Customer{
		ID:              uuid.New(),
		Email:           c.Email,
		Name:            c.Name,
		PasswordHash:    c.PasswordHash,
		DeliveryAddress: c.DeliveryAddress,
	}
}
