package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/pkg/db/models"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"gorm.io/gorm"
)

type sessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type identityReader interface {
	CustomerIDFromContext(ctx context.Context) string
	AccessIDFromContext(ctx context.Context) string
}

// Identity is the verified caller: who they are and the address on file.
type Identity struct {
	CustomerID      uuid.UUID
	AccessID        string
	Name            string
	Email           string
	DeliveryAddress string
}

// Verifier re-checks the caller's session against the live session store.
// Handlers call it again right before submitting an order, so a session
// revoked mid-checkout is caught before any write happens.
type Verifier interface {
	Verify(ctx context.Context) (*Identity, error)
}

type verifier struct {
	sessions  sessionChecker
	customers customerLoader
	ids       identityReader
}

// NewVerifier builds a session verifier backed by the provided stack.
func NewVerifier(sessions sessionChecker, customers customerLoader, ids identityReader) (Verifier, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session checker required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if ids == nil {
		return nil, fmt.Errorf("identity reader required")
	}
	return &verifier{sessions: sessions, customers: customers, ids: ids}, nil
}

func (v *verifier) Verify(ctx context.Context) (*Identity, error) {
	rawID := v.ids.CustomerIDFromContext(ctx)
	accessID := v.ids.AccessIDFromContext(ctx)
	if rawID == "" || accessID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	customerID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "malformed customer id")
	}

	ok, err := v.sessions.HasSession(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	customer, err := v.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	return &Identity{
		CustomerID:      customer.ID,
		AccessID:        accessID,
		Name:            customer.Name,
		Email:           customer.Email,
		DeliveryAddress: customer.DeliveryAddress,
	}, nil
}
