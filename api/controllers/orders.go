package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lechonexpress/backend/api/responses"
	"github.com/lechonexpress/backend/api/validators"
	ordersvc "github.com/lechonexpress/backend/internal/orders"
	"github.com/lechonexpress/backend/pkg/db/models"
	pkgerrors "github.com/lechonexpress/backend/pkg/errors"
	"github.com/lechonexpress/backend/pkg/logger"
)

type orderGroupResponse struct {
	ID              uuid.UUID       `json:"id"`
	TrackingNumber  string          `json:"tracking_number"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryAddress string          `json:"delivery_address"`
	SubtotalAmount  decimal.Decimal `json:"subtotal_amount"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Orders          []orderResponse `json:"orders"`
	CreatedAt       time.Time       `json:"created_at"`
}

type orderResponse struct {
	ID          uuid.UUID           `json:"id"`
	ProductType string              `json:"product_type"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	PriceRef  string          `json:"price_ref"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func newOrderGroupResponse(group models.OrderGroup) orderGroupResponse {
	ordersOut := make([]orderResponse, 0, len(group.Orders))
	for _, order := range group.Orders {
		items := make([]orderItemResponse, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, orderItemResponse{
				PriceRef:  item.PriceRef,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		ordersOut = append(ordersOut, orderResponse{
			ID:          order.ID,
			ProductType: string(order.ProductType),
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
			Items:       items,
		})
	}
	return orderGroupResponse{
		ID:              group.ID,
		TrackingNumber:  group.TrackingNumber,
		PaymentMethod:   string(group.PaymentMethod),
		DeliveryAddress: group.DeliveryAddress,
		SubtotalAmount:  group.SubtotalAmount,
		DeliveryFee:     group.DeliveryFee,
		TotalAmount:     group.TotalAmount,
		Orders:          ordersOut,
		CreatedAt:       group.CreatedAt,
	}
}

// OrderList returns the caller's order history, newest first.
func OrderList(repo ordersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groups, err := repo.ListGroupsByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderGroupResponse, 0, len(groups))
		for _, group := range groups {
			out = append(out, newOrderGroupResponse(group))
		}
		responses.WriteSuccess(w, out)
	}
}

// OrderByTrackingNumber looks up one order group. Callers only see their own.
func OrderByTrackingNumber(repo ordersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trackingNumber := validators.SanitizeString(chi.URLParam(r, "trackingNumber"), 0)
		if trackingNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required"))
			return
		}

		group, err := repo.FindGroupByTrackingNumber(r.Context(), trackingNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if group.CustomerID != customerID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		responses.WriteSuccess(w, newOrderGroupResponse(*group))
	}
}
