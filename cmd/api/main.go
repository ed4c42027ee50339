package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devmetrics/gitpulse/internal/auth"
	"github.com/devmetrics/gitpulse/internal/config"
	"github.com/devmetrics/gitpulse/internal/github"
	"github.com/devmetrics/gitpulse/internal/infrastructure/db"
	"github.com/devmetrics/gitpulse/internal/infrastructure/logger"
	"github.com/devmetrics/gitpulse/internal/infrastructure/telemetry"
	"github.com/devmetrics/gitpulse/internal/processing/export"
	"github.com/devmetrics/gitpulse/internal/processing/profiles"
	"github.com/devmetrics/gitpulse/internal/processing/shares"
	"github.com/devmetrics/gitpulse/internal/processing/stats"
	"github.com/devmetrics/gitpulse/internal/storage/mongo"
	redisStorage "github.com/devmetrics/gitpulse/internal/storage/redis"
	httpTransport "github.com/devmetrics/gitpulse/internal/transport/http"
	"github.com/devmetrics/gitpulse/internal/transport/http/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
	)

	var shutdownTracer func(context.Context) error
	if cfg.OTel.Enabled {
		var err error
		shutdownTracer, err = telemetry.InitTracer(cfg.OTel.Endpoint, cfg.App.Name, cfg.App.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.OTel.Endpoint))
		}
	}

	mongoConn, err := db.ConnectMongo(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = mongoConn.Disconnect() }()

	shareRepo, err := mongo.NewSharesRepository(mongoConn)
	if err != nil {
		logger.Fatal("Failed to initialize shares repository", zap.Error(err))
	}
	profileRepo, err := mongo.NewProfilesRepository(mongoConn)
	if err != nil {
		logger.Fatal("Failed to initialize profiles repository", zap.Error(err))
	}
	viewStatsRepo, err := mongo.NewViewStatsRepository(mongoConn)
	if err != nil {
		logger.Fatal("Failed to initialize view stats repository", zap.Error(err))
	}
	viewOutbox, err := mongo.NewViewOutboxRepository(mongoConn)
	if err != nil {
		logger.Fatal("Failed to initialize view outbox repository", zap.Error(err))
	}

	engine := stats.NewEngine(func(token string) stats.Fetcher {
		return github.NewClient(token, github.Options{
			BaseURL:    cfg.GitHub.APIBaseURL,
			GraphQLURL: cfg.GitHub.GraphQLURL,
			Timeout:    cfg.GitHub.RequestTimeout,
		})
	})

	profileSvc := profiles.NewService(profileRepo)
	shareSvc := shares.NewService(
		shareRepo,
		profileRepo,
		engine,
		viewOutbox,
		viewStatsRepo,
		shares.NewCryptoIDGenerator(cfg.Share.IDLength),
		cfg.Share.DefaultExpireDays,
	)
	exportSvc := export.NewService(engine)

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to initialize token service", zap.Error(err))
	}
	provider := auth.NewGitHubProvider(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.CallbackURL)

	redisClient, err := redisStorage.New(redisStorage.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()

	createStore := redisStorage.NewFixedWindowLimiter(redisClient, "rl:share_create", time.Minute)
	viewStore := redisStorage.NewFixedWindowLimiter(redisClient, "rl:share_view", time.Minute)

	router := httpTransport.NewRouter(cfg, httpTransport.Dependencies{
		Shares:        shareSvc,
		Profiles:      profileSvc,
		Export:        exportSvc,
		Engine:        engine,
		Provider:      provider,
		Tokens:        tokens,
		CreateLimiter: middleware.NewRedisFixedWindowLimiter(createStore, cfg.Share.CreatePerMinute),
		ViewLimiter:   middleware.NewRedisFixedWindowLimiter(viewStore, cfg.Share.ViewPerMinute),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if shutdownTracer != nil {
			_ = shutdownTracer(shutdownCtx)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.App.Env),
		zap.String("address", fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
