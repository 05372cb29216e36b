package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(&stubCarts{items: lechonCart()}, &stubSessions{identity: beginIdentity()}, &stubGateway{result: okResult()}, decimal.NewFromInt(50), nil, testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func TestManagerReusesControllerPerCustomer(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)
	customerID := uuid.New()

	first, err := manager.Acquire(customerID)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	second, err := manager.Acquire(customerID)
	if err != nil {
		t.Fatalf("acquire again: %v", err)
	}
	if first != second {
		t.Fatal("expected the same controller for repeat acquires")
	}

	other, err := manager.Acquire(uuid.New())
	if err != nil {
		t.Fatalf("acquire other: %v", err)
	}
	if other == first {
		t.Fatal("expected distinct controllers per customer")
	}
}

func TestManagerDropsCompletedCheckout(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)
	customerID := uuid.New()

	first, err := manager.Acquire(customerID)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := first.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := first.ConfirmPayment(context.Background()); err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	if snap := first.Snapshot(); snap.State != StateCompleted {
		t.Fatalf("expected completed, got %s", snap.State)
	}

	fresh, err := manager.Acquire(customerID)
	if err != nil {
		t.Fatalf("acquire after completion: %v", err)
	}
	if fresh == first {
		t.Fatal("completed checkout should be replaced on next acquire")
	}
	if snap := fresh.Snapshot(); snap.State != StateIdle {
		t.Fatalf("expected fresh idle controller, got %s", snap.State)
	}
}

func TestManagerEvictsIdleCheckouts(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)
	abandoned := uuid.New()

	if _, err := manager.Acquire(abandoned); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	manager.now = func() time.Time { return time.Now().Add(2 * controllerIdleTTL) }
	if _, err := manager.Acquire(uuid.New()); err != nil {
		t.Fatalf("acquire other: %v", err)
	}

	if _, ok := manager.Current(abandoned); ok {
		t.Fatal("idle checkout should have been evicted")
	}
}

func TestManagerKeepsSubmittingCheckoutAlive(t *testing.T) {
	t.Parallel()

	gateway := &stubGateway{
		result:  okResult(),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	manager, err := NewManager(&stubCarts{items: lechonCart()}, &stubSessions{identity: beginIdentity()}, gateway, decimal.NewFromInt(50), nil, testLogger())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	busy := uuid.New()

	ctrl, err := manager.Acquire(busy)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := ctrl.Begin(context.Background()); err != nil {
		t.Fatalf("begin: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := ctrl.ConfirmPayment(context.Background()); err != nil {
			t.Errorf("confirm payment: %v", err)
		}
	}()
	<-gateway.entered

	manager.now = func() time.Time { return time.Now().Add(2 * controllerIdleTTL) }
	if _, err := manager.Acquire(uuid.New()); err != nil {
		t.Fatalf("acquire other: %v", err)
	}

	if _, ok := manager.Current(busy); !ok {
		t.Fatal("an in-flight submission must survive eviction")
	}

	close(gateway.release)
	<-done
}

func TestManagerCurrent(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)
	customerID := uuid.New()

	if _, ok := manager.Current(customerID); ok {
		t.Fatal("expected no controller before acquire")
	}

	acquired, err := manager.Acquire(customerID)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	current, ok := manager.Current(customerID)
	if !ok || current != acquired {
		t.Fatal("current should return the acquired controller")
	}
}
