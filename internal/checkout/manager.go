package checkout

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/pkg/logger"
	"github.com/lechonexpress/backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// controllerIdleTTL bounds how long an abandoned checkout stays registered.
const controllerIdleTTL = time.Hour

// Manager hands out one Controller per customer. Checkout state is
// per-customer and transient; a completed checkout is dropped on the next
// begin so the customer can start over, and checkouts idle past
// controllerIdleTTL are evicted so the registry does not grow with every
// customer who ever began one.
type Manager struct {
	mu          sync.Mutex
	controllers map[uuid.UUID]*Controller

	carts       cartSource
	sessions    sessionVerifier
	gateway     orderGateway
	deliveryFee decimal.Decimal
	checkoutMet *metrics.CheckoutMetrics
	logg        *logger.Logger
	idleTTL     time.Duration
	now         func() time.Time
}

// NewManager builds the per-customer controller registry.
func NewManager(carts cartSource, sessions sessionVerifier, gateway orderGateway, deliveryFee decimal.Decimal, met *metrics.CheckoutMetrics, logg *logger.Logger) (*Manager, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session verifier required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("order gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Manager{
		controllers: map[uuid.UUID]*Controller{},
		carts:       carts,
		sessions:    sessions,
		gateway:     gateway,
		deliveryFee: deliveryFee,
		checkoutMet: met,
		logg:        logg,
		idleTTL:     controllerIdleTTL,
		now:         time.Now,
	}, nil
}

// Acquire returns the customer's controller, creating one when absent or
// when the previous checkout already completed.
func (m *Manager) Acquire(customerID uuid.UUID) (*Controller, error) {
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("customer id required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictIdleLocked()

	if existing, ok := m.controllers[customerID]; ok {
		if existing.Snapshot().State != StateCompleted {
			return existing, nil
		}
	}

	controller, err := NewController(m.carts, m.sessions, m.gateway, m.deliveryFee, m.checkoutMet, m.logg)
	if err != nil {
		return nil, err
	}
	m.controllers[customerID] = controller
	return controller, nil
}

// Current returns the customer's controller without creating one.
func (m *Manager) Current(customerID uuid.UUID) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	controller, ok := m.controllers[customerID]
	return controller, ok
}

// evictIdleLocked drops checkouts idle past the TTL. Callers hold m.mu.
func (m *Manager) evictIdleLocked() {
	now := m.now()
	for id, controller := range m.controllers {
		if controller.expired(now, m.idleTTL) {
			delete(m.controllers, id)
		}
	}
}
