package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/athena-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/cardset"
	"github.com/redmonkez12/athena-api/internal/config"
	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/email"
	httpServer "github.com/redmonkez12/athena-api/internal/http"
	"github.com/redmonkez12/athena-api/internal/logging"
	"github.com/redmonkez12/athena-api/internal/search"
	"github.com/redmonkez12/athena-api/internal/social"
	"github.com/redmonkez12/athena-api/internal/user"
)

// @title           Athena API
// @version         1.0
// @description     Flashcard sharing backend: accounts, card sets, follows, likes and search.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
	)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// SQLite is the local development store; create its schema on boot.
	// Postgres schemas are managed by athena-admin migrate.
	if cfg.Database.Driver == config.DriverSQLite {
		if err := database.CreateSchema(context.Background(), db); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	userRepo := user.NewRepository(db)
	flowTokenRepo := auth.NewFlowTokenRepository(redisClient, cfg.Auth.VerificationTokenTTL, cfg.Auth.ResetTokenTTL)
	emailService := email.NewService(cfg.Email)

	authService := auth.NewService(
		userRepo,
		flowTokenRepo,
		emailService,
		auth.NewArgon2Hasher(cfg.Auth.PasswordHashMemoryKiB, cfg.Auth.PasswordHashIterations),
		tokenService,
		logger,
		cfg.Auth.SessionTokenDuration,
	)

	handlers := httpServer.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(userRepo),
		CardSet: cardset.NewHandler(cardset.NewService(db)),
		Social:  social.NewHandler(social.NewService(db)),
		Search:  search.NewHandler(search.NewEngine(db)),
	}
	authMiddleware := auth.NewMiddleware(tokenService)

	router := httpServer.NewRouter(cfg, handlers, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis connects to the flow-token store and verifies the connection
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
