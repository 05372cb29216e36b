package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lechonexpress/backend/api/controllers"
	"github.com/lechonexpress/backend/api/middleware"
	authsvc "github.com/lechonexpress/backend/internal/auth"
	cartsvc "github.com/lechonexpress/backend/internal/cart"
	checkoutsvc "github.com/lechonexpress/backend/internal/checkout"
	ordersvc "github.com/lechonexpress/backend/internal/orders"
	sessionsvc "github.com/lechonexpress/backend/internal/session"
	"github.com/lechonexpress/backend/pkg/auth/session"
	"github.com/lechonexpress/backend/pkg/config"
	"github.com/lechonexpress/backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
}

// Deps carries everything the router mounts.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              pinger
	Redis           pinger
	SessionManager  sessionManager
	SessionVerifier sessionsvc.Verifier
	AuthService     authsvc.Service
	CartService     cartsvc.Source
	CheckoutManager *checkoutsvc.Manager
	OrdersRepo      ordersvc.Repository
	Metrics         prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", controllers.SessionCheck(cfg.JWT, deps.SessionVerifier, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.CartService, logg))
				r.Put("/", controllers.CartReplace(deps.CartService, logg))
				r.Delete("/", controllers.CartClear(deps.CartService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.OrdersRepo, logg))
				r.Get("/{trackingNumber}", controllers.OrderByTrackingNumber(deps.OrdersRepo, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutBegin(deps.CheckoutManager, cfg.Checkout, logg))
				r.Get("/", controllers.CheckoutSnapshot(deps.CheckoutManager, cfg.Checkout, logg))
				r.Patch("/", controllers.CheckoutUpdate(deps.CheckoutManager, cfg.Checkout, logg))
				r.Post("/confirm", controllers.CheckoutConfirm(deps.CheckoutManager, cfg.Checkout, logg))
				r.Route("/payment", func(r chi.Router) {
					r.Post("/confirm", controllers.CheckoutPaymentConfirm(deps.CheckoutManager, cfg.Checkout, logg))
					r.Post("/cancel", controllers.CheckoutPaymentCancel(deps.CheckoutManager, cfg.Checkout, logg))
				})
			})
		})
	})

	return r
}
