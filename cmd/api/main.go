// Package main is the entry point for the accounts API.
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

	"github.com/rs/zerolog"

	"github.com/99minutos/accounts-api/internal/api"
	"github.com/99minutos/accounts-api/internal/core/ports"
	"github.com/99minutos/accounts-api/internal/core/service"
	mongostore "github.com/99minutos/accounts-api/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/accounts-api/internal/infrastructure/db/redis"
	"github.com/99minutos/accounts-api/internal/infrastructure/db/relational"
	"github.com/99minutos/accounts-api/internal/infrastructure/http/handlers"
	"github.com/99minutos/accounts-api/internal/pkg/config"
	"github.com/99minutos/accounts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Accounts API
// @version 1.0
// @description User account management and authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-api",
	})
	log := logger.Get()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("accounts-api stopped")
	}
}

// store is the persistence selected by STORAGE_DRIVER.
type store struct {
	users ports.UserRepository
	roles ports.RoleRepository
	ping  handlers.Pinger
	close func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	if err := st.roles.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	probes := map[string]handlers.Pinger{"database": st.ping}

	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		limiter = redisstore.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login limiter enabled")
	}

	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := service.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	e := api.NewRouter(api.Dependencies{
		Users:         service.NewUserService(st.users, hasher, log),
		Auth:          service.NewAuthService(st.users, hasher, tokens, limiter, log),
		Roles:         st.roles,
		Tokens:        tokens,
		Probes:        probes,
		Logger:        log,
		AuthRequired:  cfg.AuthRequired,
		EnableSwagger: cfg.EnableSwagger,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("starting accounts-api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	if cfg.Storage == config.StorageMongo {
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users: mongostore.NewUserRepository(db),
			roles: mongostore.NewRoleRepository(db),
			ping:  func(ctx context.Context) error { return mongostore.Ping(ctx, client) },
			close: client.Disconnect,
		}, nil
	}

	db, err := relational.Open(ctx, relational.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := relational.Migrate(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &store{
		users: relational.NewUserRepository(db),
		roles: relational.NewRoleRepository(db),
		ping:  func(ctx context.Context) error { return relational.Ping(ctx, db) },
		close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}
