package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lechonexpress/backend/api/responses"
	"github.com/lechonexpress/backend/api/validators"
	checkoutsvc "github.com/lechonexpress/backend/internal/checkout"
	"github.com/lechonexpress/backend/pkg/config"
	"github.com/lechonexpress/backend/pkg/enums"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/lechonexpress/backend/pkg/logger"
)

type updateCheckoutRequest struct {
	DeliveryAddress *string `json:"delivery_address"`
	PaymentMethod   *string `json:"payment_method"`
}

type checkoutView struct {
	checkoutsvc.Snapshot
	ReceiptURL string              `json:"receipt_url,omitempty"`
	Totals     *checkoutsvc.Totals `json:"totals,omitempty"`
}

func newCheckoutView(snapshot checkoutsvc.Snapshot, cfg config.CheckoutConfig, totals *checkoutsvc.Totals) checkoutView {
	view := checkoutView{Snapshot: snapshot, Totals: totals}
	if snapshot.Receipt != nil {
		view.ReceiptURL = snapshot.Receipt.Path(cfg.ReceiptPath)
	}
	return view
}

func acquireController(r *http.Request, manager *checkoutsvc.Manager) (*checkoutsvc.Controller, uuid.UUID, error) {
	customerID, err := customerIDFromRequest(r)
	if err != nil {
		return nil, uuid.Nil, err
	}
	ctrl, err := manager.Acquire(customerID)
	if err != nil {
		return nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "acquire checkout")
	}
	return ctrl, customerID, nil
}

func currentController(r *http.Request, manager *checkoutsvc.Manager) (*checkoutsvc.Controller, error) {
	customerID, err := customerIDFromRequest(r)
	if err != nil {
		return nil, err
	}
	ctrl, ok := manager.Current(customerID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active checkout")
	}
	return ctrl, nil
}

// CheckoutBegin mounts (or re-attaches) the caller's checkout. An
// unauthenticated caller gets the login redirect in the error details.
func CheckoutBegin(manager *checkoutsvc.Manager, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		ctrl, _, err := acquireController(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.Begin(r.Context()); err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
				err = typed.WithDetails(map[string]string{"redirect": cfg.LoginRedirect()})
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutView(ctrl.Snapshot(), cfg, nil))
	}
}

// CheckoutSnapshot returns the current state plus recomputed totals.
func CheckoutSnapshot(manager *checkoutsvc.Manager, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		ctrl, err := currentController(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := ctrl.Totals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutView(ctrl.Snapshot(), cfg, &totals))
	}
}

// CheckoutUpdate applies address and payment method edits.
func CheckoutUpdate(manager *checkoutsvc.Manager, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		ctrl, err := currentController(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.DeliveryAddress == nil && body.PaymentMethod == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		if body.DeliveryAddress != nil {
			if err := ctrl.SetAddress(validators.SanitizeString(*body.DeliveryAddress, 0)); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.PaymentMethod != nil {
			method, err := enums.ParsePaymentMethod(*body.PaymentMethod)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
				return
			}
			if err := ctrl.SetPaymentMethod(method); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, newCheckoutView(ctrl.Snapshot(), cfg, nil))
	}
}

// CheckoutConfirm runs the confirm-payment step. Validation failures come
// back inside the snapshot's error slot, not as an HTTP error.
func CheckoutConfirm(manager *checkoutsvc.Manager, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		ctrl, err := currentController(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.ConfirmPayment(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutView(ctrl.Snapshot(), cfg, nil))
	}
}

// CheckoutPaymentConfirm is the modal confirm: it submits the pending order.
func CheckoutPaymentConfirm(manager *checkoutsvc.Manager, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		ctrl, err := currentController(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.ConfirmPending(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutView(ctrl.Snapshot(), cfg, nil))
	}
}

// CheckoutPaymentCancel closes the confirmation modal.
func CheckoutPaymentCancel(manager *checkoutsvc.Manager, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		ctrl, err := currentController(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ctrl.CancelPending(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutView(ctrl.Snapshot(), cfg, nil))
	}
}
