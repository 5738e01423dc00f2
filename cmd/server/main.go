package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/trymedating/trymed/internal/config"
	"github.com/trymedating/trymed/internal/database"
	"github.com/trymedating/trymed/internal/events"
	"github.com/trymedating/trymed/internal/handlers"
	"github.com/trymedating/trymed/internal/middleware"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/internal/services"
	"github.com/trymedating/trymed/internal/storage"
	"github.com/trymedating/trymed/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	defer logger.Sync()

	logger.Info("Starting TryMeDating server...")

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Attachment store
	files, err := storage.NewFileStore(cfg.UploadDir, cfg.UploadMaxSize)
	if err != nil {
		logger.Fatal("Failed to initialize file store", err)
	}

	// Event bus; Redis upgrades it to cross-instance fan-out
	bus := events.NewBus()
	var publisher events.Publisher = bus

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", err)
		}

		relay := events.NewRelay(bus, rdb)
		go relay.Run(ctx)
		publisher = relay

		logger.Info("Redis event relay enabled")
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	connRepo := repositories.NewConnectionRepository(db)
	msgRepo := repositories.NewMessageRepository(db)
	inviteRepo := repositories.NewInviteRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	pushRepo := repositories.NewPushRepository(db)

	// Services
	pushSvc := services.NewPushService(pushRepo, cfg)
	notifySvc := services.NewNotifyService(cfg, pushSvc)
	userSvc := services.NewUserService(userRepo, cfg.JWTSecret)
	connSvc := services.NewConnectionService(connRepo, userRepo, publisher)
	chatSvc := services.NewChatService(msgRepo, connRepo, files, publisher, bus, notifySvc, cfg.UploadMaxSize)
	inviteSvc := services.NewInviteService(inviteRepo, userRepo, cfg.InviteJWTSecret)
	reportSvc := services.NewReportService(reportRepo, userRepo, notifySvc)
	accountSvc := services.NewAccountService(userRepo, connRepo, msgRepo, pushRepo, reportRepo, files)

	go chatSvc.RunUnreadReconciler(ctx, cfg.GetUnreadReconcileInterval())

	// HTTP surface
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerUser, cfg.RateLimitPerIP, time.Minute)
	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:        handlers.NewAuthHandler(userSvc),
		Connections: handlers.NewConnectionHandler(connSvc, inviteSvc),
		Messages:    handlers.NewMessageHandler(chatSvc),
		Invites:     handlers.NewInviteHandler(inviteSvc),
		Reports:     handlers.NewReportHandler(reportSvc),
		Push:        handlers.NewPushHandler(pushSvc, cfg.PushWebhookSecret),
		Events:      handlers.NewEventsHandler(bus),
		Account:     handlers.NewAccountHandler(accountSvc),
		JWTSecret:   cfg.JWTSecret,
		Limiter:     limiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
