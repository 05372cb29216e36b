package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/pkg/db/models"
	"github.com/lechonexpress/backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orderGroups := `
CREATE TABLE IF NOT EXISTS order_groups (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  subtotal_amount NUMERIC NOT NULL,
  delivery_fee NUMERIC NOT NULL,
  total_amount NUMERIC NOT NULL,
  tracking_number TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_group_id TEXT NOT NULL,
  customer_id TEXT NOT NULL,
  product_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  price_ref TEXT NOT NULL,
  product_type TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orderGroups).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func TestRepositoryCreateAndFindGroup(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customerID := uuid.New()

	group, err := repo.CreateOrderGroup(context.Background(), &models.OrderGroup{
		CustomerID:      customerID,
		PaymentMethod:   enums.PaymentMethodCOD,
		DeliveryAddress: "123 Mabini St, Quezon City",
		SubtotalAmount:  decimal.NewFromInt(4860),
		DeliveryFee:     decimal.NewFromInt(50),
		TotalAmount:     decimal.NewFromInt(4910),
		TrackingNumber:  "LX-20260831-AB12CD34",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, group.ID)

	order, err := repo.CreateOrder(context.Background(), &models.Order{
		OrderGroupID: group.ID,
		CustomerID:   customerID,
		ProductType:  enums.ProductTypeLechon,
		Status:       enums.OrderStatusPending,
		TotalAmount:  decimal.NewFromInt(4500),
	})
	require.NoError(t, err)

	items := []models.OrderItem{{
		OrderID:     order.ID,
		PriceRef:    "price_lechon_whole",
		ProductType: enums.ProductTypeLechon,
		Name:        "Whole Lechon",
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(4500),
	}}
	require.NoError(t, repo.CreateOrderItems(context.Background(), items))

	loaded, err := repo.FindGroupByID(context.Background(), group.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Orders, 1)
	require.Len(t, loaded.Orders[0].Items, 1)
	assert.Equal(t, "Whole Lechon", loaded.Orders[0].Items[0].Name)
	assert.True(t, loaded.SubtotalAmount.Equal(decimal.NewFromInt(4860)))

	byTracking, err := repo.FindGroupByTrackingNumber(context.Background(), "LX-20260831-AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, group.ID, byTracking.ID)
}

func TestRepositoryListGroupsByCustomer(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customerID := uuid.New()

	for i, tracking := range []string{"LX-20260831-00000001", "LX-20260831-00000002"} {
		_, err := repo.CreateOrderGroup(context.Background(), &models.OrderGroup{
			CustomerID:      customerID,
			PaymentMethod:   enums.PaymentMethodGcash,
			DeliveryAddress: "45 Rizal Ave, Cebu",
			SubtotalAmount:  decimal.NewFromInt(int64(100 * (i + 1))),
			DeliveryFee:     decimal.NewFromInt(50),
			TotalAmount:     decimal.NewFromInt(int64(100*(i+1) + 50)),
			TrackingNumber:  tracking,
		})
		require.NoError(t, err)
	}

	groups, err := repo.ListGroupsByCustomer(context.Background(), customerID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	other, err := repo.ListGroupsByCustomer(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRepositoryTrackingNumberUnique(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	base := models.OrderGroup{
		CustomerID:      uuid.New(),
		PaymentMethod:   enums.PaymentMethodCOD,
		DeliveryAddress: "addr",
		SubtotalAmount:  decimal.NewFromInt(100),
		DeliveryFee:     decimal.NewFromInt(50),
		TotalAmount:     decimal.NewFromInt(150),
		TrackingNumber:  "LX-20260831-DUPLICATE",
	}
	first := base
	_, err := repo.CreateOrderGroup(context.Background(), &first)
	require.NoError(t, err)

	second := base
	second.ID = uuid.Nil
	_, err = repo.CreateOrderGroup(context.Background(), &second)
	assert.Error(t, err)
}
