package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgiraldob/vitrina-backend/api/controllers"
	"github.com/sgiraldob/vitrina-backend/api/middleware"
	"github.com/sgiraldob/vitrina-backend/internal/cartsession"
	"github.com/sgiraldob/vitrina-backend/internal/orders"
	"github.com/sgiraldob/vitrina-backend/internal/payments"
	"github.com/sgiraldob/vitrina-backend/internal/tenants"
	"github.com/sgiraldob/vitrina-backend/pkg/auth/session"
	"github.com/sgiraldob/vitrina-backend/pkg/config"
	"github.com/sgiraldob/vitrina-backend/pkg/db"
	"github.com/sgiraldob/vitrina-backend/pkg/logger"
	"github.com/sgiraldob/vitrina-backend/pkg/metrics"
	"github.com/sgiraldob/vitrina-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	tenantsSvc tenants.Service,
	ordersSvc orders.Service,
	carts *cartsession.Service,
	bridge *payments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.CartToken())

		r.Get("/payments/return", controllers.PaymentReturn(bridge, logg))

		r.Route("/stores/{slug}", func(r chi.Router) {
			r.Get("/", controllers.StorefrontStore(tenantsSvc, logg))
			r.Post("/orders", controllers.StorefrontCreateOrder(tenantsSvc, ordersSvc, carts, logg))
			r.Get("/orders/current", controllers.StorefrontActiveOrder(tenantsSvc, ordersSvc, carts, logg))

			r.Route("/orders/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.StorefrontOrderDetail(tenantsSvc, ordersSvc, logg))
				r.Post("/items", controllers.StorefrontAddItem(tenantsSvc, ordersSvc, logg))
				r.Delete("/items/{itemId}", controllers.StorefrontRemoveItem(tenantsSvc, ordersSvc, logg))
				r.Patch("/customer", controllers.StorefrontSetCustomer(tenantsSvc, ordersSvc, logg))
				r.Post("/payment-link", controllers.StorefrontPaymentLink(tenantsSvc, bridge, logg))
			})
		})
	})

	r.Route("/api/v1/tenants/{slug}", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))

		r.Get("/roles", controllers.TenantRoles(tenantsSvc, logg))
		r.Get("/ticket-settings", controllers.TenantTicketSettings(tenantsSvc, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.DashboardCreateOrder(tenantsSvc, ordersSvc, logg))

			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.DashboardOrderDetail(tenantsSvc, ordersSvc, logg))
				r.Post("/items", controllers.DashboardAddItem(tenantsSvc, ordersSvc, logg))
				r.Delete("/items/{itemId}", controllers.DashboardRemoveItem(tenantsSvc, ordersSvc, logg))
				r.Post("/discount", controllers.DashboardApplyDiscount(tenantsSvc, ordersSvc, logg))
				r.Post("/assignee", controllers.DashboardAssignOrder(tenantsSvc, ordersSvc, logg))
				r.Patch("/customer", controllers.DashboardSetCustomer(tenantsSvc, ordersSvc, logg))
				r.Post("/payment-link", controllers.DashboardPaymentLink(tenantsSvc, bridge, logg))
				r.Post("/confirm-payment", controllers.DashboardConfirmPayment(tenantsSvc, bridge, logg))
				r.Post("/cancel", controllers.DashboardCancelOrder(tenantsSvc, ordersSvc, logg))
			})
		})
	})

	return r
}
