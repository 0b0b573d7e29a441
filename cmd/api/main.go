// Command api runs the madkurv ordering platform HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/madkurv/api/internal/handlers"
	"github.com/madkurv/api/internal/payments"
	"github.com/madkurv/api/internal/platform/auth"
	"github.com/madkurv/api/internal/platform/config"
	platformfs "github.com/madkurv/api/internal/platform/firestore"
	"github.com/madkurv/api/internal/platform/observability"
	fsrepo "github.com/madkurv/api/internal/repositories/firestore"
	"github.com/madkurv/api/internal/services"
)

const shutdownGrace = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Server.Environment, os.Getenv("LOG_LEVEL"))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := platformfs.NewProvider(platformfs.Settings{
		ProjectID:       cfg.Firestore.ProjectID,
		DatabaseID:      cfg.Firestore.DatabaseID,
		CredentialsFile: cfg.Firestore.CredentialsFile,
		EmulatorHost:    cfg.Firestore.EmulatorHost,
	})
	if err != nil {
		return fmt.Errorf("firestore provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	brands := fsrepo.NewBrandRepository(provider)
	locations := fsrepo.NewLocationRepository(provider)
	categories := fsrepo.NewCategoryRepository(provider)
	products := fsrepo.NewProductRepository(provider)
	combos := fsrepo.NewComboRepository(provider)
	discounts := fsrepo.NewDiscountRepository(provider)
	vouchers := fsrepo.NewVoucherRepository(provider)
	carts := fsrepo.NewCartRepository(provider)
	orders := fsrepo.NewOrderRepository(provider)
	upsellRepo := fsrepo.NewUpsellRepository(provider)
	counters := fsrepo.NewCounterRepository(provider)
	feedbackRepo := fsrepo.NewFeedbackRepository(provider)
	qaRepo := fsrepo.NewQARepository(provider)

	events := observability.EventLogger(logger)
	clock := time.Now

	engine := services.NewPricingEngine(services.PricingEngineDeps{Clock: clock, Logger: events})

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Brands:     brands,
		Locations:  locations,
		Categories: categories,
		Products:   products,
		Combos:     combos,
		Clock:      clock,
		Logger:     events,
	})
	if err != nil {
		return fmt.Errorf("catalog service: %w", err)
	}

	discountSvc, err := services.NewDiscountService(services.DiscountServiceDeps{
		Discounts: discounts,
		Vouchers:  vouchers,
		Clock:     clock,
		Logger:    events,
	})
	if err != nil {
		return fmt.Errorf("discount service: %w", err)
	}

	cartSvc, err := services.NewCartService(services.CartServiceDeps{
		Carts:     carts,
		Products:  products,
		Combos:    combos,
		Upsells:   upsellRepo,
		Discounts: discounts,
		Vouchers:  vouchers,
		Locations: locations,
		Engine:    engine,
		Clock:     clock,
		Logger:    events,
	})
	if err != nil {
		return fmt.Errorf("cart service: %w", err)
	}

	var upsellSvc services.UpsellService
	if cfg.Features.EnableUpsells {
		upsellSvc, err = services.NewUpsellService(services.UpsellServiceDeps{
			Upsells:  upsellRepo,
			Products: products,
			Clock:    clock,
			Logger:   events,
		})
		if err != nil {
			return fmt.Errorf("upsell service: %w", err)
		}
	}

	stripeProvider, err := payments.NewStripeProvider(payments.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
	})
	if err != nil {
		return fmt.Errorf("stripe provider: %w", err)
	}

	checkoutSvc, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Carts:    cartSvc,
		CartRepo: carts,
		Orders:   orders,
		Counters: counters,
		Provider: stripeProvider,
		Currency: cfg.Pricing.Currency,
		Clock:    clock,
		Logger:   events,
	})
	if err != nil {
		return fmt.Errorf("checkout service: %w", err)
	}

	feedbackSvc, err := services.NewFeedbackService(services.FeedbackServiceDeps{
		Feedback: feedbackRepo,
		Orders:   orders,
		Clock:    clock,
		Logger:   events,
	})
	if err != nil {
		return fmt.Errorf("feedback service: %w", err)
	}

	qaSvc, err := services.NewQAService(services.QAServiceDeps{
		Cases:    qaRepo,
		Counters: counters,
		Clock:    clock,
	})
	if err != nil {
		return fmt.Errorf("qa service: %w", err)
	}

	verifier, err := auth.NewFirebaseVerifier(ctx, auth.FirebaseSettings{
		ProjectID:       cfg.Firebase.ProjectID,
		CredentialsFile: cfg.Firebase.CredentialsFile,
	})
	if err != nil {
		return fmt.Errorf("firebase verifier: %w", err)
	}
	authn := auth.NewMiddleware(verifier)

	health := handlers.NewHealthHandlers(
		handlers.WithVersion(version(), cfg.Server.Environment),
		handlers.WithReadinessCheck("firestore", func(ctx context.Context) error {
			_, err := provider.Client(ctx)
			return err
		}),
	)

	cartHandlers := handlers.NewCartHandlers(cartSvc, upsellSvc)
	checkoutHandlers := handlers.NewCheckoutHandlers(checkoutSvc, cartSvc)
	adminHandlers := handlers.NewAdminHandlers(catalogSvc, discountSvc, upsellSvc, feedbackSvc, qaSvc)

	opts := []handlers.Option{
		handlers.WithMiddlewares(
			observability.TraceMiddleware(cfg.Firestore.ProjectID),
			observability.RequestLogger(logger),
			observability.Recovery(logger),
		),
		handlers.WithHealth(health),
		handlers.WithStorefront(handlers.NewStorefrontHandlers(catalogSvc).Routes),
		handlers.WithCarts(cartHandlers.Routes),
		handlers.WithCheckout(checkoutHandlers.Routes),
		handlers.WithAdmin(adminHandlers.Routes),
		handlers.WithWebhooks(handlers.NewWebhookHandlers(stripeProvider, checkoutSvc).Routes),
		handlers.WithAuth(
			authn.Require(),
			authn.Require(auth.RoleStaff, auth.RoleAdmin),
		),
	}
	if cfg.Features.EnableFeedback {
		opts = append(opts, handlers.WithFeedback(handlers.NewFeedbackHandlers(feedbackSvc).Routes))
	}

	router := handlers.NewRouter(opts...)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// version is stamped at build time via -ldflags.
var buildVersion = "dev"

func version() string { return buildVersion }
