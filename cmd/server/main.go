package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr_ordering/internal/config"
	"qr_ordering/internal/database"
	"qr_ordering/internal/handlers"
	"qr_ordering/internal/logger"
	"qr_ordering/internal/migrations"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/redis"
	"qr_ordering/internal/repository"
	"qr_ordering/internal/services"
	"qr_ordering/pkg/qrcode"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		LogLevel:     cfg.DBLogLevel,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if cfg.ResetSchema {
		log.Warn("RESET_SCHEMA set, dropping existing tables")
	}
	if err := migrations.RunMigrations(db, cfg.ResetSchema); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}
	adminHash, err := services.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.WithError(err).Fatal("Failed to hash admin password")
	}
	if err := migrations.CreateDefaultData(db, cfg.AdminUsername, adminHash); err != nil {
		log.WithError(err).Fatal("Failed to create default data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	hub := notify.NewHub(log, 0)
	var publisher notify.Publisher = hub
	var statsCache services.StatsCache

	// Redis is optional; with it every instance sees every event
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisClient.Close()

		bus := redisClient.EventBus(cfg.EventsChannel)
		relayDone, err := bus.Relay(ctx, hub)
		if err != nil {
			log.WithError(err).Fatal("Failed to start event relay")
		}
		g.Go(func() error {
			<-relayDone
			return nil
		})
		publisher = bus
		statsCache = redisClient.StatsCache(cfg.StatsCacheTTL())
		log.WithField("channel", cfg.EventsChannel).Info("Redis event relay enabled")
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	tableRepo := repository.NewTableRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	callRepo := repository.NewWaiterCallRepository(db)

	// Initialize services
	orderService := services.NewOrderService(orderRepo, orderItemRepo, tableRepo, catalogRepo, callRepo,
		publisher, statsCache, log, services.OrderOptions{StrictTransitions: cfg.StrictTransitions})
	svc := handlers.Services{
		Orders:      orderService,
		WaiterCalls: services.NewWaiterCallService(callRepo, publisher, statsCache, log),
		Tables:      services.NewTableService(tableRepo, orderRepo, qrcode.NewGenerator(cfg.MenuBaseURL), log),
		Catalog:     services.NewCatalogService(catalogRepo),
		Feedback:    services.NewFeedbackService(repository.NewFeedbackRepository(db), tableRepo),
		Settings:    services.NewSettingsService(repository.NewSettingsRepository(db)),
		Users:       services.NewUserService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.TokenLifetime()),
	}

	if cfg.ServerSideTimers {
		scheduler := services.NewReadinessScheduler(orderService, cfg.ReadinessTick(), log)
		g.Go(func() error { return scheduler.Run(ctx) })
		log.WithField("interval", cfg.ReadinessTick().String()).Info("Readiness scheduler enabled")
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handlers.NewRouter(svc, hub, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Server stopped with error")
	}
	log.Info("Server stopped")
}
