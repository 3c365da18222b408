package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"barberia-backend/internal/checkout"
	"barberia-backend/internal/config"
	"barberia-backend/internal/db"
	"barberia-backend/internal/handler"
	"barberia-backend/internal/printing"
	"barberia-backend/internal/receipt"
	"barberia-backend/internal/repository"
	"barberia-backend/internal/server"
	"barberia-backend/internal/service"
	"github.com/robfig/cron/v3"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	barberRepo := repository.BarberRepository{DB: pg}
	serviceRepo := repository.ServiceRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	categoryRepo := repository.CategoryRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	appointmentRepo := repository.AppointmentRepository{DB: pg}
	invoiceRepo := repository.InvoiceRepository{DB: pg}
	inventoryRepo := repository.InventoryRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	auditRepo := repository.AuditRepository{DB: pg}
	closingRepo := repository.ClosingRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	// idempotent starter catalog for fresh installs
	if cfg.Env == "development" {
		if err := categoryRepo.SeedDefaults(ctx); err != nil {
			logger.Warn("category seed failed", "err", err)
		}
		if err := serviceRepo.SeedDefaults(ctx); err != nil {
			logger.Warn("service seed failed", "err", err)
		}
		if err := productRepo.SeedDefaults(ctx); err != nil {
			logger.Warn("product seed failed", "err", err)
		}
	}

	// business settings drive receipt layout and the print bridge location
	settings, err := settingsRepo.Get(ctx)
	if err != nil {
		logger.Error("failed to load settings", "err", err)
		os.Exit(1)
	}
	printURL := cfg.PrintServiceURL
	if settings.PrintServiceURL != "" {
		printURL = settings.PrintServiceURL
	}
	currency := cfg.DefaultCurrency
	if settings.CurrencyCode != "" {
		currency = settings.CurrencyCode
	}

	printClient := printing.NewClient(printURL, cfg.PrintProbeTimeout, cfg.PrintTimeout, cfg.DrawerTimeout)
	deliveryChain := printing.NewChain(printClient, logger)
	renderer := &receipt.Renderer{Business: *settings}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	reconcileSvc := service.ReconcileService{Inventory: inventoryRepo, Audit: auditRepo, Logger: logger}
	checkoutSvc := &checkout.Service{
		Invoices:     invoiceRepo,
		Appointments: appointmentRepo,
		Stock:        inventoryRepo,
		Barbers:      barberRepo,
		Commission:   checkout.Calculator{DB: pg, Logger: logger, Currency: currency},
		Renderer:     renderer,
		Delivery:     deliveryChain,
		Logger:       logger,
		Currency:     currency,
	}

	// nightly stock reconciliation
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReconcileCronSpec, func() {
		if err := reconcileSvc.Run(context.Background()); err != nil {
			logger.Error("scheduled reconciliation failed", "err", err)
		}
	}); err != nil {
		logger.Error("invalid reconcile cron spec", "spec", cfg.ReconcileCronSpec, "err", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	homeHandler := handler.HomeHandler{}
	docsHandler := handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath}
	catalogHandler := handler.CatalogHandler{Barbers: barberRepo, Services: serviceRepo, Products: productRepo}
	checkoutHandler := handler.CheckoutHandler{Service: checkoutSvc}
	invoiceHandler := handler.InvoiceHandler{Repo: invoiceRepo, Barbers: barberRepo, Stock: inventoryRepo, Audit: auditRepo, Renderer: renderer, Delivery: deliveryChain}
	printerHandler := handler.PrinterHandler{Client: printClient}
	appointmentHandler := handler.AppointmentHandler{Repo: appointmentRepo}
	customerHandler := handler.CustomerHandler{Repo: customerRepo}
	barberHandler := handler.BarberHandler{Repo: barberRepo}
	serviceHandler := handler.ServiceAdminHandler{Repo: serviceRepo}
	productHandler := handler.ProductAdminHandler{Repo: productRepo}
	categoryHandler := handler.CategoryHandler{Repo: categoryRepo}
	inventoryHandler := handler.InventoryHandler{Repo: inventoryRepo, Audit: auditRepo, Reconciler: &reconcileSvc}
	reportHandler := handler.ReportHandler{Repo: invoiceRepo}
	closingHandler := handler.ClosingHandler{Repo: closingRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	settingsHandler := handler.SettingsHandler{Repo: settingsRepo}
	auditHandler := handler.AuditHandler{Repo: auditRepo}

	router := server.NewRouter(cfg, logger,
		healthHandler, authHandler, homeHandler, docsHandler,
		catalogHandler, checkoutHandler, invoiceHandler, printerHandler,
		appointmentHandler, customerHandler, barberHandler, serviceHandler,
		productHandler, categoryHandler, inventoryHandler, reportHandler,
		closingHandler, dashboardHandler, settingsHandler, auditHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
