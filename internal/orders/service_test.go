package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/internal/cart"
	"github.com/lechonexpress/backend/pkg/db/models"
	"github.com/lechonexpress/backend/pkg/enums"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingRepo struct {
	groups []*models.OrderGroup
	orders []*models.Order
	items  [][]models.OrderItem
}

func (r *recordingRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *recordingRepo) CreateOrderGroup(ctx context.Context, group *models.OrderGroup) (*models.OrderGroup, error) {
	group.ID = uuid.New()
	r.groups = append(r.groups, group)
	return group, nil
}

func (r *recordingRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	r.orders = append(r.orders, order)
	return order, nil
}

func (r *recordingRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	r.items = append(r.items, items)
	return nil
}

func (r *recordingRepo) FindGroupByID(ctx context.Context, id uuid.UUID) (*models.OrderGroup, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *recordingRepo) FindGroupByTrackingNumber(ctx context.Context, trackingNumber string) (*models.OrderGroup, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *recordingRepo) ListGroupsByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.OrderGroup, error) {
	return nil, nil
}

func validSubmission() Submission {
	return Submission{
		CustomerID:      uuid.New(),
		DeliveryAddress: "123 Mabini St, Quezon City",
		PaymentMethod:   enums.PaymentMethodCOD,
		Items: []cart.Item{
			{PriceRef: "price_lechon_whole", ProductType: enums.ProductTypeLechon, Name: "Whole Lechon", Quantity: 1, UnitPrice: decimal.NewFromInt(4500)},
			{PriceRef: "price_dinuguan", ProductType: enums.ProductTypeViands, Name: "Dinuguan", Quantity: 3, UnitPrice: decimal.NewFromInt(120)},
		},
		Subtotal:    decimal.NewFromInt(4860),
		DeliveryFee: decimal.NewFromInt(50),
		Total:       decimal.NewFromInt(4910),
	}
}

func newTestGateway(repo Repository) Gateway {
	svc, err := NewService(stubTxRunner{}, repo)
	if err != nil {
		panic(err)
	}
	return svc
}

func TestSubmitCreatesOneOrderPerProductType(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	gateway := newTestGateway(repo)

	result, err := gateway.Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(repo.groups) != 1 {
		t.Fatalf("expected 1 order group, got %d", len(repo.groups))
	}
	if len(repo.orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(repo.orders))
	}
	if repo.orders[0].ProductType != enums.ProductTypeLechon || repo.orders[1].ProductType != enums.ProductTypeViands {
		t.Fatalf("expected deterministic lechon-then-viands ordering, got %s then %s", repo.orders[0].ProductType, repo.orders[1].ProductType)
	}
	if !repo.orders[0].TotalAmount.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("lechon order total wrong: %s", repo.orders[0].TotalAmount)
	}
	if !repo.orders[1].TotalAmount.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("viands order total wrong: %s", repo.orders[1].TotalAmount)
	}
	if len(result.OrderIDs) != 2 {
		t.Fatalf("expected 2 order ids, got %d", len(result.OrderIDs))
	}
	if result.TrackingNumber == "" {
		t.Fatal("expected tracking number")
	}
	for _, group := range repo.groups {
		if group.TrackingNumber != result.TrackingNumber {
			t.Fatalf("group tracking mismatch: %s vs %s", group.TrackingNumber, result.TrackingNumber)
		}
	}
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing customer", func(s *Submission) { s.CustomerID = uuid.Nil }},
		{"missing address", func(s *Submission) { s.DeliveryAddress = "" }},
		{"bad payment method", func(s *Submission) { s.PaymentMethod = "check" }},
		{"empty cart", func(s *Submission) { s.Items = nil }},
		{"subtotal mismatch", func(s *Submission) { s.Subtotal = decimal.NewFromInt(1) }},
		{"total mismatch", func(s *Submission) { s.Total = decimal.NewFromInt(1) }},
	}

	gateway := newTestGateway(&recordingRepo{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validSubmission()
			tc.mutate(&input)
			_, err := gateway.Submit(context.Background(), input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("unexpected error code: %v", err)
			}
		})
	}
}

func TestNewTrackingNumberFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tracking, err := NewTrackingNumber(now)
	if err != nil {
		t.Fatalf("tracking number: %v", err)
	}
	const wantPrefix = "LX-20260831-"
	if len(tracking) != len(wantPrefix)+8 || tracking[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("unexpected tracking number %q", tracking)
	}
}
