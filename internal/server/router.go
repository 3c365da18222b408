package server

import (
	"net/http"
	"time"

	"barberia-backend/internal/config"
	"barberia-backend/internal/domain"
	"barberia-backend/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	home handler.HomeHandler,
	docs handler.DocsHandler,
	catalog handler.CatalogHandler,
	checkout handler.CheckoutHandler,
	invoices handler.InvoiceHandler,
	printer handler.PrinterHandler,
	appointments handler.AppointmentHandler,
	customers handler.CustomerHandler,
	barbers handler.BarberHandler,
	services handler.ServiceAdminHandler,
	products handler.ProductAdminHandler,
	categories handler.CategoryHandler,
	inventory handler.InventoryHandler,
	reports handler.ReportHandler,
	closings handler.ClosingHandler,
	dashboard handler.DashboardHandler,
	settings handler.SettingsHandler,
	audit handler.AuditHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	home.RegisterRoutes(r)
	docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		// cashier-level (cashier/admin)
		pr.Group(func(cr chi.Router) {
			cr.Use(RequireRole(domain.RoleAdmin, domain.RoleCashier))
			catalog.RegisterRoutes(cr)
			checkout.RegisterRoutes(cr)
			invoices.RegisterRoutes(cr)
			printer.RegisterRoutes(cr)
			appointments.RegisterRoutes(cr)
			customers.RegisterRoutes(cr)
			closings.RegisterRoutes(cr)
		})
		// admin-level
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin))
			invoices.RegisterAdminRoutes(ar)
			barbers.RegisterRoutes(ar)
			services.RegisterRoutes(ar)
			products.RegisterRoutes(ar)
			categories.RegisterRoutes(ar)
			inventory.RegisterRoutes(ar)
			reports.RegisterRoutes(ar)
			dashboard.RegisterRoutes(ar)
			settings.RegisterRoutes(ar)
			audit.RegisterRoutes(ar)
		})
	})

	return r
}
