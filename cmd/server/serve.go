package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/bootstrap"
	"github.com/dukerupert/shopery/internal/cookie"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/handler/admin"
	"github.com/dukerupert/shopery/internal/handler/storefront"
	"github.com/dukerupert/shopery/internal/middleware"
	"github.com/dukerupert/shopery/internal/repository"
	"github.com/dukerupert/shopery/internal/router"
	"github.com/dukerupert/shopery/internal/routes"
	"github.com/dukerupert/shopery/internal/service"
	"github.com/dukerupert/shopery/internal/telemetry"
)

const shutdownTimeout = 25 * time.Second

func serve(ctx context.Context, _ *cli.Command) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	cfg, logger := a.cfg, a.logger

	if err := a.migrateDB(ctx, "up"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	pool, err := a.openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := repository.NewStore(pool)

	conn, err := a.connectNATS()
	if err != nil {
		return err
	}
	if conn != nil {
		defer conn.Drain()
	}

	hasher := auth.NewHasher(cfg.BcryptCost)
	if err := bootstrap.EnsureAdmin(ctx, store, hasher, &bootstrap.AdminConfig{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// ==========================================================================
	// Services
	// ==========================================================================

	deps := service.Deps{
		Store:              store,
		Notifier:           a.notifier(conn),
		Metrics:            a.metrics,
		Logger:             logger,
		GuestCartTTL:       cfg.Cart.GuestTTL,
		GuestCartActiveTTL: cfg.Cart.GuestActiveTTL,
	}

	codes := service.CodeConfig{
		Hasher:          hasher,
		VerificationTTL: cfg.Codes.VerificationTTL,
		ResetTTL:        cfg.Codes.ResetTTL,
		ResendInterval:  cfg.Codes.ResendInterval,
	}
	verificationService := service.NewEmailVerificationService(deps, codes)
	userService := service.NewUserService(deps, service.UserConfig{
		Hasher:       hasher,
		SessionTTL:   cfg.SessionTTL,
		Verification: verificationService,
	}, service.NewCartMerger(deps))
	productService := service.NewProductService(deps)
	categoryService := service.NewCategoryService(deps)
	tagService := service.NewTagService(deps)
	reviewService := service.NewReviewService(deps)
	commentService := service.NewCommentService(deps)
	orderService := service.NewOrderService(deps)

	// ==========================================================================
	// Handlers
	// ==========================================================================

	cookies := cookie.NewConfig(cfg.BaseDomain, cfg.Env == "prod")

	storefrontDeps := routes.StorefrontDeps{
		AuthHandler:      storefront.NewAuthHandler(userService, cookies),
		RecoveryHandler:  storefront.NewRecoveryHandler(verificationService, service.NewPasswordResetService(deps, codes)),
		AccountHandler:   storefront.NewAccountHandler(userService, service.NewAccountService(deps, nil), cookies),
		CatalogHandler:   storefront.NewCatalogHandler(productService, categoryService, tagService),
		ReviewHandler:    storefront.NewReviewHandler(reviewService),
		CommentHandler:   storefront.NewCommentHandler(commentService),
		CartHandler:      storefront.NewCartHandler(service.NewCartService(deps)),
		GuestCartHandler: storefront.NewGuestCartHandler(service.NewGuestCartService(deps), cookies),
		CheckoutHandler:  storefront.NewCheckoutHandler(service.NewCheckoutService(deps), cookies),
		OrderHandler:     storefront.NewOrderHandler(orderService),
		WishlistHandler:  storefront.NewWishlistHandler(service.NewWishlistService(deps)),
	}

	adminDeps := routes.AdminDeps{
		ProductHandler:    admin.NewProductHandler(productService),
		CategoryHandler:   admin.NewCategoryHandler(categoryService, tagService),
		OrderHandler:      admin.NewOrderHandler(orderService),
		ModerationHandler: admin.NewModerationHandler(reviewService, commentService),
	}

	// ==========================================================================
	// Middleware and routes
	// ==========================================================================

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RPS,
		BurstSize:         cfg.RateLimit.Burst,
		CleanupInterval:   time.Minute,
	})
	defer rateLimiter.Stop()

	authRateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.AuthRPS,
		BurstSize:         cfg.RateLimit.AuthBurst,
		CleanupInterval:   time.Minute,
	})
	defer authRateLimiter.Stop()
	storefrontDeps.AuthRateLimit = authRateLimiter.Middleware

	httpMetrics := middleware.NewMetrics(metricsNamespace, a.registry)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env != "prod" {
		securityConfig.HSTSMaxAge = 0
	}

	r := router.New(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(),
		httpMetrics.Middleware,
		telemetry.SentryMiddleware(),
		middleware.SecurityHeaders(securityConfig),
		router.CORS(router.CORSConfig{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedHeaders: []string{middleware.GuestTokenHeader},
		}),
		middleware.MaxBodySize(),
		middleware.Timeout(),
		rateLimiter.Middleware,
		middleware.WithUser(userService),
		telemetry.SentryUserMiddleware(sentryUser),
		middleware.WithRequestLogger(logger),
		middleware.GuestToken,
		middleware.AccessLog,
	)

	routes.RegisterOpsRoutes(r, routes.OpsDeps{DB: pool, Metrics: httpMetrics.Handler()})
	routes.RegisterStorefrontRoutes(r, storefrontDeps)
	routes.RegisterAdminRoutes(r, adminDeps)
	logger.Debug().Strs("routes", r.Routes()).Msg("routes registered")

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: middleware.DefaultTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("Server stopped")
	return nil
}

func sentryUser(ctx context.Context) *telemetry.UserInfo {
	user := domain.UserFromContext(ctx)
	if user == nil {
		return nil
	}
	return &telemetry.UserInfo{ID: user.PublicID.String(), Email: user.Email}
}
