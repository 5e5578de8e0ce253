package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/munera-collective/munera-platform/docs"
	"github.com/munera-collective/munera-platform/internal/api"
	"github.com/munera-collective/munera-platform/internal/api/handlers"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/cache"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/flyer"
	"github.com/munera-collective/munera-platform/internal/health"
	"github.com/munera-collective/munera-platform/internal/leaderboard"
	"github.com/munera-collective/munera-platform/internal/metrics"
	"github.com/munera-collective/munera-platform/internal/realtime"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/tracing"
	"github.com/munera-collective/munera-platform/internal/voting"
	"github.com/munera-collective/munera-platform/pkg/geocoding"
	"github.com/munera-collective/munera-platform/pkg/sendgrid"
	"github.com/munera-collective/munera-platform/pkg/storage"
	"github.com/munera-collective/munera-platform/pkg/stripe"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	tallyTimeout        = 5 * time.Second
	realtimeBuffer      = 64
	leaderboardPingTick = 15 * time.Second
)

//	@title						Munera Collective API
//	@version					1.0
//	@description				Events, shop, contest voting and flyer generation for the Munera Collective.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional, real deployments inject the environment directly
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error configuring tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	db, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := repository.Migrate(ctx, db); err != nil {
		slog.Error("❌ Error applying the schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	objectStorage, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		slog.Error("❌ Error configuring object storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	listener, err := realtime.NewListener(cfg.Database.GetDSN(), cfg.Database.ListenerMinReconnect, cfg.Database.ListenerMaxReconnect, logger)
	if err != nil {
		slog.Error("❌ Error starting the realtime listener", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	eventRepo := repository.NewEventRepo(db)
	mediaRepo := repository.NewMediaRepo(db)
	contestRepo := repository.NewContestRepo(db)
	voteRepo := repository.NewVoteRepo(db)
	sessionRepo := repository.NewSessionRepo(redisClient)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	// Clients
	stripeClient := stripe.NewStripeClient(cfg.Stripe.APIKey, cfg.Stripe.WebhookSecret)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	geocoder := geocoding.NewNominatim(cfg.Geocoding)
	compositor := flyer.NewCompositor(flyer.NewHTTPLoader(cfg.Flyer.MaxImageSize, cfg.FlyerBackgroundHosts()), cfg.Flyer.ImageTimeout, cfg.Flyer.BrandName)

	// Background workers
	hub := realtime.NewHub(listener, realtimeBuffer, logger)
	go hub.Run(ctx)

	tally := voting.NewTallyUpdater(contestRepo, cfg.Contest.TallyQueueSize, tallyTimeout, logger)

	board := leaderboard.NewService(contestRepo, hub, cfg.Contest.LeaderboardSize, logger)
	if err := board.Start(ctx); err != nil {
		slog.Error("❌ Error loading the leaderboard", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, rateLimitRepo, sendGridClient, cfg.Security)
	productService := service.NewProductService(productRepo, redisCache, objectStorage)
	cartService := service.NewCartService(redisCache, productRepo, cfg.Cart)
	checkoutService := service.NewCheckoutService(redisCache, stripeClient, sendGridClient, cfg.Cart, cfg.Stripe.Currency)
	eventService := service.NewEventService(eventRepo, mediaRepo, geocoder, objectStorage)
	mediaService := service.NewMediaService(mediaRepo, eventRepo, objectStorage)
	contestService := service.NewContestService(contestRepo, voteRepo, authService, authService, tally, objectStorage)
	flyerService := service.NewFlyerService(compositor, objectStorage)

	healthChecks, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: db, Realtime: listener})
	if err != nil {
		slog.Error("❌ Error configuring health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey), authService, &cfg.Security)

	router := api.NewRouter(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, int(cfg.Security.MagicLinkTTL.Seconds())),
		Cart:        handlers.NewCartHandler(cartService, cfg.Cart.TTL, cfg.Env != "local"),
		Checkout:    handlers.NewCheckoutHandler(checkoutService),
		Product:     handlers.NewProductHandler(productService),
		Event:       handlers.NewEventHandler(eventService, mediaService),
		Contest:     handlers.NewContestHandler(contestService),
		Leaderboard: handlers.NewLeaderboardHandler(board, leaderboardPingTick),
		Flyer:       handlers.NewFlyerHandler(flyerService),
		Health:      healthChecks.Handler(),
	}, authMiddleware)

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Middleware chaining
	var handler http.Handler = router
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.Otel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	board.Stop()

	if err := hub.Close(); err != nil {
		slog.Error("⚠️ Error closing the realtime listener", slog.String("error", err.Error()))
	}
	hub.Wait()

	// drains queued increments before the pool goes away
	tally.Close()

	if err := redisCache.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}

	if err := db.Close(); err != nil {
		slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Database connection closed")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
