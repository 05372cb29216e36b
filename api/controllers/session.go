package controllers

import (
	"net/http"

	"github.com/lechonexpress/backend/api/middleware"
	"github.com/lechonexpress/backend/api/responses"
	sessionsvc "github.com/lechonexpress/backend/internal/session"
	pkgAuth "github.com/lechonexpress/backend/pkg/auth"
	"github.com/lechonexpress/backend/pkg/config"
	"github.com/lechonexpress/backend/pkg/logger"
)

type sessionCheckResponse struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	CustomerID      string `json:"customer_id,omitempty"`
	DeliveryAddress string `json:"delivery_address,omitempty"`
}

// SessionCheck answers the storefront's check-auth probe. It never fails:
// any missing, invalid, or revoked credential collapses to an
// unauthenticated response.
func SessionCheck(cfg config.JWTConfig, verifier sessionsvc.Verifier, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unauthenticated := sessionCheckResponse{IsAuthenticated: false}

		token, err := parseBearerToken(r)
		if err != nil {
			responses.WriteSuccess(w, unauthenticated)
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg, token)
		if err != nil || claims.ID == "" {
			responses.WriteSuccess(w, unauthenticated)
			return
		}

		ctx := middleware.WithCustomerID(r.Context(), claims.CustomerID.String())
		ctx = middleware.WithAccessID(ctx, claims.ID)

		identity, err := verifier.Verify(ctx)
		if err != nil {
			if logg != nil {
				logg.Warn(ctx, "session check rejected: "+err.Error())
			}
			responses.WriteSuccess(w, unauthenticated)
			return
		}

		responses.WriteSuccess(w, sessionCheckResponse{
			IsAuthenticated: true,
			CustomerID:      identity.CustomerID.String(),
			DeliveryAddress: identity.DeliveryAddress,
		})
	}
}
