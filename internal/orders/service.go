package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/internal/cart"
	"github.com/lechonexpress/backend/pkg/db/models"
	"github.com/lechonexpress/backend/pkg/enums"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Submission is one checkout payload ready to be written.
type Submission struct {
	CustomerID      uuid.UUID
	DeliveryAddress string
	PaymentMethod   enums.PaymentMethod
	Items           []cart.Item
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
}

// Result reports the persisted orders for a submission.
type Result struct {
	OrderIDs       []uuid.UUID
	TrackingNumber string
}

// Gateway accepts checkout submissions and persists them atomically.
type Gateway interface {
	Submit(ctx context.Context, input Submission) (*Result, error)
}

type service struct {
	tx   txRunner
	repo Repository
	now  func() time.Time
}

// NewService builds the order submission gateway.
func NewService(tx txRunner, repo Repository) (Gateway, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{tx: tx, repo: repo, now: time.Now}, nil
}

// Submit validates the payload and writes the order group, one order per
// product type, and the order items in a single transaction.
func (s *service) Submit(ctx context.Context, input Submission) (*Result, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	trackingNumber, err := NewTrackingNumber(s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint tracking number")
	}

	grouped := groupItemsByType(input.Items)

	var result *Result
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		group, err := repo.CreateOrderGroup(ctx, &models.OrderGroup{
			CustomerID:      input.CustomerID,
			PaymentMethod:   input.PaymentMethod,
			DeliveryAddress: input.DeliveryAddress,
			SubtotalAmount:  input.Subtotal,
			DeliveryFee:     input.DeliveryFee,
			TotalAmount:     input.Total,
			TrackingNumber:  trackingNumber,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order group")
		}

		orderIDs := make([]uuid.UUID, 0, len(grouped))
		for _, productType := range orderedTypes(grouped) {
			items := grouped[productType]
			total := decimal.Zero
			for _, item := range items {
				total = total.Add(item.LineTotal())
			}

			order, err := repo.CreateOrder(ctx, &models.Order{
				OrderGroupID: group.ID,
				CustomerID:   input.CustomerID,
				ProductType:  productType,
				Status:       enums.OrderStatusPending,
				TotalAmount:  total,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}

			orderItems := make([]models.OrderItem, 0, len(items))
			for _, item := range items {
				orderItems = append(orderItems, models.OrderItem{
					OrderID:     order.ID,
					PriceRef:    item.PriceRef,
					ProductType: item.ProductType,
					Name:        item.Name,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
				})
			}
			if err := repo.CreateOrderItems(ctx, orderItems); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
			}
			orderIDs = append(orderIDs, order.ID)
		}

		result = &Result{OrderIDs: orderIDs, TrackingNumber: trackingNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateSubmission(input Submission) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.DeliveryAddress == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method invalid")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	subtotal := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price must be non-negative")
		}
		if !item.ProductType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item product type invalid")
		}
		subtotal = subtotal.Add(item.LineTotal())
	}

	if !subtotal.Equal(input.Subtotal) {
		return pkgerrors.New(pkgerrors.CodeValidation, "subtotal does not match items")
	}
	if !input.Subtotal.Add(input.DeliveryFee).Equal(input.Total) {
		return pkgerrors.New(pkgerrors.CodeValidation, "total does not match subtotal and delivery fee")
	}
	return nil
}

func groupItemsByType(items []cart.Item) map[enums.ProductType][]cart.Item {
	grouped := make(map[enums.ProductType][]cart.Item)
	for _, item := range items {
		grouped[item.ProductType] = append(grouped[item.ProductType], item)
	}
	return grouped
}

// orderedTypes keeps order creation deterministic regardless of map iteration.
func orderedTypes(grouped map[enums.ProductType][]cart.Item) []enums.ProductType {
	ordered := make([]enums.ProductType, 0, len(grouped))
	for _, candidate := range []enums.ProductType{enums.ProductTypeLechon, enums.ProductTypeViands} {
		if _, ok := grouped[candidate]; ok {
			ordered = append(ordered, candidate)
		}
	}
	return ordered
}
