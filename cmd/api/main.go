package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kesorhosting-wq/testtopupkesor/internal/cache"
	"github.com/kesorhosting-wq/testtopupkesor/internal/config"
	"github.com/kesorhosting-wq/testtopupkesor/internal/database"
	"github.com/kesorhosting-wq/testtopupkesor/internal/handler"
	"github.com/kesorhosting-wq/testtopupkesor/internal/middleware"
	"github.com/kesorhosting-wq/testtopupkesor/internal/repository"
	"github.com/kesorhosting-wq/testtopupkesor/internal/service"
	"github.com/kesorhosting-wq/testtopupkesor/internal/sse"
	"github.com/kesorhosting-wq/testtopupkesor/internal/utils"
	"github.com/kesorhosting-wq/testtopupkesor/internal/worker"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/g2bulk"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/isan"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/mojang"
	"github.com/kesorhosting-wq/testtopupkesor/pkg/roblox"
)

// main is the application entrypoint for the top-up storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting topup api")

	// 2a. Install the JWT signing key
	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize provider clients
	g2bulkClient := g2bulk.NewClient(cfg.G2Bulk.BaseURL, cfg.G2Bulk.APIKey)
	robloxClient := roblox.NewClient("")
	mojangClient := mojang.NewClient("")
	freeClient := isan.NewClient(cfg.Verification.FreeFallbackURL)

	// 5. Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	configRepo := repository.NewVerificationConfigRepository(db)
	gatewayRepo := repository.NewGatewayRepository(db)
	productRepo := repository.NewG2BulkProductRepository(db)
	settingRepo := repository.NewSiteSettingRepository(db)

	// 5a. Caches
	catalogCache := cache.NewCatalogCache(redisClient)
	configCache := cache.NewVerificationConfigCache(configRepo.ListActive, cfg.Verification.CacheTTL, nil)

	// 6. Initialize SSE hub and services
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	catalogSvc := service.NewCatalogService(gameRepo, packageRepo)
	walletSvc := service.NewWalletService(walletRepo)
	authSvc := service.NewAuthService(userRepo)
	gatewaySvc := service.NewGatewayService(gatewayRepo)
	orderSvc := service.NewOrderService(orderRepo, catalogSvc, walletSvc, notifier)
	verifySvc := service.NewVerificationService(configCache, g2bulkClient, robloxClient, mojangClient, freeClient, cfg.Verification.RequestTimeout)
	fulfillmentSvc := service.NewFulfillmentService(orderRepo, g2bulkClient, cfg.Worker.FulfillmentMaxAge, notifier)
	syncSvc := service.NewCatalogSyncService(
		service.NewCachedSupplier(g2bulkClient, catalogCache),
		productRepo, gameRepo, packageRepo,
	)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db),
		Auth:              handler.NewAuthHandler(authSvc),
		Catalog:           handler.NewCatalogHandler(catalogSvc),
		Order:             handler.NewOrderHandler(orderSvc),
		Wallet:            handler.NewWalletHandler(walletSvc),
		Verification:      handler.NewVerificationHandler(verifySvc),
		Gateway:           handler.NewGatewayHandler(gatewaySvc),
		Webhook:           handler.NewWebhookHandler(orderSvc, gatewaySvc),
		SSE:               handler.NewSSEHandler(hub),
		SiteSetting:       handler.NewSiteSettingHandler(settingRepo),
		AdminCatalog:      handler.NewAdminCatalogHandler(gameRepo, packageRepo),
		AdminVerification: handler.NewAdminVerificationHandler(configRepo, verifySvc),
		AdminGateway:      handler.NewAdminGatewayHandler(gatewaySvc),
		AdminSync:         handler.NewAdminSyncHandler(syncSvc, g2bulkClient, catalogCache),
		AdminData:         handler.NewAdminDataHandler(gameRepo, packageRepo, configRepo, settingRepo, verifySvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewFulfillmentWorker(fulfillmentSvc, cfg.Worker.FulfillmentInterval).Start(ctx)
	go worker.NewSyncWorker(syncSvc, cfg.Worker.SyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Auth              *handler.AuthHandler
	Catalog           *handler.CatalogHandler
	Order             *handler.OrderHandler
	Wallet            *handler.WalletHandler
	Verification      *handler.VerificationHandler
	Gateway           *handler.GatewayHandler
	Webhook           *handler.WebhookHandler
	SSE               *handler.SSEHandler
	SiteSetting       *handler.SiteSettingHandler
	AdminCatalog      *handler.AdminCatalogHandler
	AdminVerification *handler.AdminVerificationHandler
	AdminGateway      *handler.AdminGatewayHandler
	AdminSync         *handler.AdminSyncHandler
	AdminData         *handler.AdminDataHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	// Payment gateway webhook (bearer shared-secret auth, own response shape)
	router.POST("/webhook/:orderId", handlers.Webhook.HandlePaymentWebhook)

	router.GET("/v1/health", handlers.Health.Check)

	// Public storefront routes
	v1 := router.Group("/v1")
	{
		v1.POST("/auth/register", handlers.Auth.Register)
		v1.POST("/auth/login", handlers.Auth.Login)

		v1.GET("/games", handlers.Catalog.ListGames)
		v1.GET("/games/:id", handlers.Catalog.GetGame)
		v1.GET("/games/:id/packages", handlers.Catalog.ListGamePackages)

		v1.POST("/verify-game-id", handlers.Verification.VerifyGameID)
		v1.GET("/gateway/khqr", handlers.Gateway.GetKHQRConfig)

		// Guest checkout works anonymously; a valid bearer attaches the
		// order to the account and unlocks wallet payment.
		v1.POST("/orders", jwtMiddleware.OptionalAuth(), handlers.Order.Create)
		v1.GET("/orders/:id", handlers.Order.Get)

		v1.GET("/site-settings", handlers.SiteSetting.List)
		v1.GET("/site-settings/:key", handlers.SiteSetting.Get)

		// JWT passed via query param (EventSource limitation)
		v1.GET("/payments/events", handlers.SSE.Stream)
	}

	// Authenticated user routes
	user := router.Group("/v1")
	user.Use(jwtMiddleware.Handle())
	{
		user.GET("/auth/me", handlers.Auth.Me)
		user.POST("/wallet", handlers.Wallet.Handle)
		user.GET("/orders", handlers.Order.ListMine)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireAdmin())
	{
		// Catalog management
		admin.GET("/games", handlers.AdminCatalog.ListGames)
		admin.POST("/games", handlers.AdminCatalog.CreateGame)
		admin.PUT("/games/:id", handlers.AdminCatalog.UpdateGame)
		admin.DELETE("/games/:id", handlers.AdminCatalog.DeleteGame)
		admin.GET("/games/:id/packages", handlers.AdminCatalog.ListPackages)
		admin.POST("/packages", handlers.AdminCatalog.CreatePackage)
		admin.PUT("/packages/:id", handlers.AdminCatalog.UpdatePackage)
		admin.DELETE("/packages/:id", handlers.AdminCatalog.DeletePackage)

		// Verification config management
		admin.GET("/verification-configs", handlers.AdminVerification.List)
		admin.POST("/verification-configs", handlers.AdminVerification.Create)
		admin.PUT("/verification-configs/:id", handlers.AdminVerification.Update)
		admin.DELETE("/verification-configs/:id", handlers.AdminVerification.Delete)

		// Payment gateway management
		admin.GET("/gateways", handlers.AdminGateway.List)
		admin.PUT("/gateways/:slug", handlers.AdminGateway.Update)
		admin.POST("/gateways/:slug/rotate-secret", handlers.AdminGateway.RotateSecret)

		// Site content
		admin.PUT("/site-settings/:key", handlers.SiteSetting.Upsert)

		// Content backup and restore
		admin.GET("/data/export", handlers.AdminData.Export)
		admin.POST("/data/import", handlers.AdminData.Import)

		// Supplier catalog sync
		admin.POST("/sync/products", handlers.AdminSync.SyncProducts)
		admin.POST("/sync/bulk-import", handlers.AdminSync.BulkImport)
		admin.POST("/sync/games-batch", handlers.AdminSync.SyncGamesBatch)
		admin.GET("/sync/stats", handlers.AdminSync.Stats)
		admin.GET("/g2bulk/games", handlers.AdminSync.SupplierGames)
		admin.GET("/g2bulk/balance", handlers.AdminSync.SupplierBalance)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
