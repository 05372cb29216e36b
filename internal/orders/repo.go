package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes order persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrderGroup(ctx context.Context, group *models.OrderGroup) (*models.OrderGroup, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error)
	FindGroupByTrackingNumber(ctx context.Context, trackingNumber string) (*models.OrderGroup, error)
	ListGroupsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderGroup, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrderGroup(ctx context.Context, group *models.OrderGroup) (*models.OrderGroup, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Orders").Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	var group models.OrderGroup
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("Orders.Items").
		First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) FindGroupByTrackingNumber(ctx context.Context, trackingNumber string) (*models.OrderGroup, error) {
	var group models.OrderGroup
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Preload("Orders.Items").
		Where("tracking_number = ?", trackingNumber).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *repository) ListGroupsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderGroup, error) {
	var groups []models.OrderGroup
	err := r.db.WithContext(ctx).
		Preload("Orders").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}
