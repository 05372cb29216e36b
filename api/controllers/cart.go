package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lechonexpress/backend/api/middleware"
	"github.com/lechonexpress/backend/api/responses"
	"github.com/lechonexpress/backend/api/validators"
	cartsvc "github.com/lechonexpress/backend/internal/cart"
	"github.com/lechonexpress/backend/pkg/enums"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/lechonexpress/backend/pkg/logger"
)

type replaceCartRequest struct {
	Items []cartItemPayload `json:"items" validate:"required,dive"`
}

type cartItemPayload struct {
	PriceRef    string          `json:"price_ref" validate:"required"`
	ProductType string          `json:"product_type" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
}

type cartItemResponse struct {
	PriceRef    string          `json:"price_ref"`
	ProductType string          `json:"product_type"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

func customerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
	}
	return id, nil
}

func (r replaceCartRequest) toItems() ([]cartsvc.Item, error) {
	items := make([]cartsvc.Item, len(r.Items))
	for i, payload := range r.Items {
		productType, err := enums.ParseProductType(payload.ProductType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product type")
		}
		items[i] = cartsvc.Item{
			PriceRef:    payload.PriceRef,
			ProductType: productType,
			Name:        payload.Name,
			Quantity:    payload.Quantity,
			UnitPrice:   payload.UnitPrice,
		}
	}
	return items, nil
}

func newCartResponse(items []cartsvc.Item) cartResponse {
	out := make([]cartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemResponse{
			PriceRef:    item.PriceRef,
			ProductType: string(item.ProductType),
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	return cartResponse{Items: out}
}

// CartGet returns the caller's persisted cart. A missing cart is an empty one.
func CartGet(svc cartsvc.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Items(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartReplace overwrites the caller's cart with the submitted lines.
func CartReplace(svc cartsvc.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := payload.toItems()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Replace(r.Context(), customerID, items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(items))
	}
}

// CartClear empties the caller's cart.
func CartClear(svc cartsvc.Source, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
