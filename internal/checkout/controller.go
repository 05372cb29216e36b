package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lechonexpress/backend/internal/cart"
	"github.com/lechonexpress/backend/internal/orders"
	"github.com/lechonexpress/backend/internal/session"
	"github.com/lechonexpress/backend/pkg/enums"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/lechonexpress/backend/pkg/logger"
	"github.com/lechonexpress/backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// State tags the checkout lifecycle. The tag replaces independent
// processing/modal booleans so invalid combinations cannot be represented.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSubmitting           State = "submitting"
	StateCompleted            State = "completed"
)

const (
	msgAddressRequired = "Please provide a delivery address"
	msgCartEmpty       = "Your cart is empty"
	msgLoginAgain      = "Please log in again"
	msgSubmitFallback  = "Error processing your order. Please try again."
	msgCartClearFailed = "Your order was placed, but your cart could not be cleared"
)

type cartSource interface {
	Items(ctx context.Context, customerID uuid.UUID) ([]cart.Item, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type sessionVerifier interface {
	Verify(ctx context.Context) (*session.Identity, error)
}

type orderGateway interface {
	Submit(ctx context.Context, input orders.Submission) (*orders.Result, error)
}

// Snapshot is the externally visible view of one checkout.
type Snapshot struct {
	State          State               `json:"state"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	InputAddress   string              `json:"input_address"`
	SessionAddress string              `json:"session_address"`
	ErrorMessage   string              `json:"error_message,omitempty"`
	WarningMessage string              `json:"warning_message,omitempty"`
	Receipt        *Receipt            `json:"receipt,omitempty"`
}

// Controller owns all transient checkout state for one customer and
// orchestrates validation, the Gcash confirmation step, and submission.
//
// The mutex guards state transitions only. Network calls run with the mutex
// released; while they are in flight the Submitting tag is the re-entrancy
// guard, so concurrent confirms collapse into a single gateway call.
type Controller struct {
	mu             sync.Mutex
	state          State
	customerID     uuid.UUID
	inputAddress   string
	sessionAddress string
	paymentMethod  enums.PaymentMethod
	errorMessage   string
	warningMessage string
	receipt        *Receipt
	touched        time.Time

	carts       cartSource
	sessions    sessionVerifier
	gateway     orderGateway
	deliveryFee decimal.Decimal
	checkoutMet *metrics.CheckoutMetrics
	logg        *logger.Logger
	now         func() time.Time
}

// NewController builds a checkout controller backed by the provided stack.
func NewController(carts cartSource, sessions sessionVerifier, gateway orderGateway, deliveryFee decimal.Decimal, met *metrics.CheckoutMetrics, logg *logger.Logger) (*Controller, error) {
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
	if deliveryFee.IsNegative() {
		return nil, fmt.Errorf("delivery fee must be non-negative")
	}
	return &Controller{
		state:         StateIdle,
		paymentMethod: enums.PaymentMethodCOD,
		touched:       time.Now(),
		carts:         carts,
		sessions:      sessions,
		gateway:       gateway,
		deliveryFee:   deliveryFee,
		checkoutMet:   met,
		logg:          logg,
		now:           time.Now,
	}, nil
}

// Begin verifies the session and seeds the address fields. A failed or
// missing session is terminal for the flow; the HTTP layer answers it with
// the login redirect.
func (c *Controller) Begin(ctx context.Context) error {
	identity, err := c.sessions.Verify(ctx)
	if err != nil {
		c.logg.Warn(ctx, "checkout mount rejected: "+err.Error())
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "login required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if c.state == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	c.customerID = identity.CustomerID
	c.sessionAddress = identity.DeliveryAddress
	if c.inputAddress == "" {
		c.inputAddress = identity.DeliveryAddress
	}
	if c.state != StateCompleted {
		c.state = StateIdle
	}
	return nil
}

// SetAddress updates the typed delivery address.
func (c *Controller) SetAddress(address string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if c.state == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	c.inputAddress = address
	return nil
}

// SetPaymentMethod switches payment methods. The selector is disabled while
// a submission is in flight.
func (c *Controller) SetPaymentMethod(method enums.PaymentMethod) error {
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method invalid")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if c.state == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	c.paymentMethod = method
	return nil
}

// ConfirmPayment runs validation and either defers to the confirmation step
// (Gcash) or submits directly (COD). Validation failures land in the error
// slot, not in the returned error.
func (c *Controller) ConfirmPayment(ctx context.Context) error {
	c.mu.Lock()
	c.touchLocked()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil
	case StateCompleted:
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "checkout already completed")
	}
	if c.effectiveAddressLocked() == "" {
		c.errorMessage = msgAddressRequired
		c.state = StateIdle
		c.mu.Unlock()
		return nil
	}
	customerID := c.customerID
	c.mu.Unlock()

	items, err := c.carts.Items(ctx, customerID)
	if err != nil {
		c.logg.Error(ctx, "checkout cart read failed", err)
		c.setError(msgSubmitFallback)
		return nil
	}
	if len(validLines(items)) == 0 {
		c.setError(msgCartEmpty)
		return nil
	}

	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil
	}
	if c.paymentMethod.RequiresConfirmation() {
		c.state = StateAwaitingConfirmation
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.submit(ctx)
}

// ConfirmPending is the modal confirm: it submits the order.
func (c *Controller) ConfirmPending(ctx context.Context) error {
	c.mu.Lock()
	c.touchLocked()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return nil
	case StateAwaitingConfirmation:
		c.mu.Unlock()
		return c.submit(ctx)
	default:
		c.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "no confirmation pending")
	}
}

// CancelPending closes the confirmation step. Cancel is suppressed while a
// submission is in flight.
func (c *Controller) CancelPending() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	if c.state == StateSubmitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	if c.state == StateAwaitingConfirmation {
		c.state = StateIdle
	}
	return nil
}

// Snapshot returns the current view of the checkout.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:          c.state,
		PaymentMethod:  c.paymentMethod,
		InputAddress:   c.inputAddress,
		SessionAddress: c.sessionAddress,
		ErrorMessage:   c.errorMessage,
		WarningMessage: c.warningMessage,
		Receipt:        c.receipt,
	}
}

// Totals recomputes the money summary from the live cart.
func (c *Controller) Totals(ctx context.Context) (Totals, error) {
	c.mu.Lock()
	customerID := c.customerID
	c.mu.Unlock()

	items, err := c.carts.Items(ctx, customerID)
	if err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return ComputeTotals(items, c.deliveryFee), nil
}

// submit performs the guarded submission sequence: take the lock or bail,
// re-verify the session, build the payload, call the gateway, then finalize.
func (c *Controller) submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil
	}
	c.errorMessage = ""
	c.state = StateSubmitting
	typed := strings.TrimSpace(c.inputAddress)
	method := c.paymentMethod
	c.mu.Unlock()

	started := c.now()

	identity, err := c.sessions.Verify(ctx)
	if err != nil {
		c.logg.Warn(ctx, "checkout submit rejected: session lapsed")
		c.checkoutMet.IncFailure(string(method), "session")
		c.setError(msgLoginAgain)
		return nil
	}

	address := typed
	if address == "" {
		address = strings.TrimSpace(identity.DeliveryAddress)
	}

	items, err := c.carts.Items(ctx, identity.CustomerID)
	if err != nil {
		c.logg.Error(ctx, "checkout submit cart read failed", err)
		c.checkoutMet.IncFailure(string(method), "cart")
		c.setError(msgSubmitFallback)
		return nil
	}

	// the payload carries the same lines the subtotal counted, so a stale
	// malformed entry cannot fail gateway validation for the rest
	items = validLines(items)
	if len(items) == 0 {
		c.checkoutMet.IncFailure(string(method), "cart")
		c.setError(msgCartEmpty)
		return nil
	}

	totals := ComputeTotals(items, c.deliveryFee)

	result, err := c.gateway.Submit(ctx, orders.Submission{
		CustomerID:      identity.CustomerID,
		DeliveryAddress: address,
		PaymentMethod:   method,
		Items:           items,
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		Total:           totals.Total,
	})
	if err != nil {
		c.logg.Error(ctx, "checkout submit failed", err)
		c.checkoutMet.IncFailure(string(method), "gateway")
		c.setError(userMessage(err))
		return nil
	}

	clearErr := c.carts.Clear(ctx, identity.CustomerID)
	if clearErr != nil {
		// the order is persisted; the stale cart is reported, not fatal
		c.logg.Error(ctx, "clear cart after submit failed", clearErr)
	}

	receipt := &Receipt{
		OrderIDs:        result.OrderIDs,
		TrackingNumber:  result.TrackingNumber,
		CustomerAddress: address,
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		Total:           totals.Total,
		PaymentMethod:   method,
	}

	c.mu.Lock()
	c.state = StateCompleted
	c.receipt = receipt
	if clearErr != nil {
		c.warningMessage = msgCartClearFailed
	}
	c.touchLocked()
	c.mu.Unlock()

	c.checkoutMet.IncSuccess(string(method))
	c.checkoutMet.ObserveDuration(string(method), c.now().Sub(started))
	return nil
}

// setError lands a message in the single visible error slot and returns the
// flow to Idle, closing any confirmation surface.
func (c *Controller) setError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorMessage = message
	c.state = StateIdle
	c.touchLocked()
}

// touchLocked records activity for idle eviction. Callers hold c.mu.
func (c *Controller) touchLocked() {
	c.touched = c.now()
}

// expired reports whether the checkout has been idle longer than ttl. A
// submission in flight is never expired.
func (c *Controller) expired(now time.Time, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return false
	}
	return now.Sub(c.touched) > ttl
}

func (c *Controller) effectiveAddressLocked() string {
	if typed := strings.TrimSpace(c.inputAddress); typed != "" {
		return typed
	}
	return strings.TrimSpace(c.sessionAddress)
}

// userMessage prefers a server-supplied message when the error carries one
// that is safe to show, else the generic fallback.
func userMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return msgSubmitFallback
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeConflict:
		if typed.Message() != "" {
			return typed.Message()
		}
	}
	return msgSubmitFallback
}
