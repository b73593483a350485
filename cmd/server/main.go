// Command server runs the user-auth web frontend.
//
// @title        User Auth UI
// @version      1.0
// @description  Browser frontend for the user authentication API.
// @BasePath     /
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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/99minutos/user-auth-ui/internal/api"
	"github.com/99minutos/user-auth-ui/internal/api/handler"
	"github.com/99minutos/user-auth-ui/internal/core/ports"
	"github.com/99minutos/user-auth-ui/internal/core/service"
	"github.com/99minutos/user-auth-ui/internal/core/session"
	"github.com/99minutos/user-auth-ui/internal/infrastructure/authapi"
	"github.com/99minutos/user-auth-ui/internal/infrastructure/db/memory"
	mongostore "github.com/99minutos/user-auth-ui/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/user-auth-ui/internal/infrastructure/db/redis"
	"github.com/99minutos/user-auth-ui/internal/pkg/config"
	"github.com/99minutos/user-auth-ui/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "user-auth-ui",
	})

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := authapi.New(authapi.Config{
		BaseURL:   cfg.API.BaseURL,
		LoginPath: cfg.API.LoginPath,
		Timeout:   cfg.API.Timeout,
	}, nil, logger.Component("authapi"))
	if err != nil {
		return err
	}

	router, err := api.NewRouter(api.Deps{
		Log:                log,
		Sessions:           session.NewManager(store, client, logger.Component("session")),
		Accounts:           service.NewAccountService(client, logger.Component("accounts")),
		Tables:             service.NewUserTables(client, cfg.AdminTableTTL, logger.Component("user_table")),
		Readiness:          map[string]handler.Pinger{cfg.StoreBackend: store},
		SessionSecret:      []byte(cfg.SessionSecret),
		CookieSecure:       cfg.CookieSecure,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("api", cfg.API.BaseURL).Str("store", cfg.StoreBackend).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

// openStore connects the configured credential backend and returns a func
// releasing it.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.CredentialStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		store := mongostore.NewCredentialStore(db, cfg.CredentialTTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return store, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("using in-memory credential store, sessions will not survive a restart")
		return memory.NewCredentialStore(cfg.CredentialTTL), func() {}, nil

	default:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewCredentialStore(client, cfg.CredentialTTL), func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}, nil
	}
}
