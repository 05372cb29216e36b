package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/lechonexpress/backend/pkg/redis"
)

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(customerID string) string
}

// Source exposes the persisted cart for a customer.
type Source interface {
	Items(ctx context.Context, customerID uuid.UUID) ([]Item, error)
	Replace(ctx context.Context, customerID uuid.UUID, items []Item) error
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	store cartStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewService builds a redis-backed cart source.
func NewService(client *redis.Client, ttl time.Duration) (Source, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &service{store: client, keyer: client, ttl: ttl}, nil
}

// Items returns the customer's cart. A missing key is an empty cart, not an error.
func (s *service) Items(ctx context.Context, customerID uuid.UUID) ([]Item, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	raw, err := s.store.Get(ctx, s.keyer.CartKey(customerID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart")
	}
	return items, nil
}

// Replace overwrites the customer's cart with the provided snapshot.
func (s *service) Replace(ctx context.Context, customerID uuid.UUID, items []Item) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	for _, item := range items {
		if err := validateItem(item); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.keyer.CartKey(customerID.String()), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store cart")
	}
	return nil
}

// Clear drops the customer's cart.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.store.Del(ctx, s.keyer.CartKey(customerID.String())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func validateItem(item Item) error {
	if item.PriceRef == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item price ref is required")
	}
	if !item.ProductType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item product type is invalid")
	}
	if item.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item name is required")
	}
	if item.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item unit price must be non-negative")
	}
	return nil
}
