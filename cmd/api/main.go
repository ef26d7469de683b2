package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/crewsight/crewsight-platform/internal/api/router"
	"github.com/crewsight/crewsight-platform/internal/chatsession"
	appconfig "github.com/crewsight/crewsight-platform/internal/config"
	"github.com/crewsight/crewsight-platform/internal/intake"
	"github.com/crewsight/crewsight-platform/internal/leadstore"
	"github.com/crewsight/crewsight-platform/internal/notify"
	"github.com/crewsight/crewsight-platform/internal/observability/metrics"
	"github.com/crewsight/crewsight-platform/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting crewsight-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	store, pool := setupLeadStore(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}

	sessions, redisClient := setupSessionStore(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	dispatcher, err := setupDispatcher(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize notification channels", "error", err)
		os.Exit(1)
	}

	metricsHandler, intakeMetrics := setupIntakeMetrics()

	// Initialize handlers
	intakeHandler := intake.NewHandler(store, dispatcher, sessions, intakeMetrics, cfg.CRMAPIKey, logger)
	chatHandler := chatsession.NewHandler(sessions, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		IntakeHandler:      intakeHandler,
		ChatHandler:        chatHandler,
		MetricsHandler:     metricsHandler,
		CRMAPIKey:          cfg.CRMAPIKey,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupLeadStore connects to Postgres when DATABASE_URL is set, falling back
// to the in-memory store otherwise. The pool is returned for Close on exit.
func setupLeadStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leadstore.Store, *pgxpool.Pool) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory lead store")
		return leadstore.NewMemoryStore(), nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("using postgres lead store")
	return leadstore.NewPostgresStore(pool), pool
}

// setupSessionStore uses Redis when configured, in-memory otherwise.
func setupSessionStore(cfg *appconfig.Config, logger *logging.Logger) (chatsession.Store, *redis.Client) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory chat session store")
		return chatsession.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	logger.Info("using redis chat session store", "addr", cfg.RedisAddr)
	return chatsession.NewRedisStore(client, cfg.SessionTTL), client
}

// setupDispatcher wires the notification channels. Unconfigured providers
// come back nil and are reported as disabled rather than failing dispatch.
func setupDispatcher(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*notify.Dispatcher, error) {
	var emailSender notify.EmailSender
	if s := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); s != nil {
		emailSender = s
	}

	var smsSender notify.SMSSender
	if s := notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, logger); s != nil {
		smsSender = s
	}

	var sheetSyncer notify.SheetSyncer
	sheets, err := notify.NewSheetsClient(ctx, notify.SheetsConfig{
		CredentialsJSON: cfg.SheetsCredentialsJSON,
		SpreadsheetID:   cfg.SheetsSpreadsheetID,
		Range:           cfg.SheetsRange,
	}, logger)
	if err != nil {
		return nil, err
	}
	if sheets != nil {
		sheetSyncer = sheets
	}

	return notify.NewDispatcher(emailSender, smsSender, sheetSyncer, notify.Config{
		AdminEmail:     cfg.AdminEmail,
		AdminCC:        cfg.AdminCCEmail,
		SalesPhone:     cfg.SalesPhoneNumber,
		ChannelTimeout: cfg.ChannelTimeout,
	}, logger), nil
}

func setupIntakeMetrics() (http.Handler, *metrics.IntakeMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.NewIntakeMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), m
}
