package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sundevs/user-access-api/internal/api"
	"github.com/sundevs/user-access-api/internal/api/handler"
	"github.com/sundevs/user-access-api/internal/api/middleware"
	"github.com/sundevs/user-access-api/internal/core/ports"
	"github.com/sundevs/user-access-api/internal/core/service"
	"github.com/sundevs/user-access-api/internal/infrastructure/crypto"
	"github.com/sundevs/user-access-api/internal/infrastructure/db/memory"
	"github.com/sundevs/user-access-api/internal/infrastructure/db/mongo"
	"github.com/sundevs/user-access-api/internal/infrastructure/db/postgres"
	"github.com/sundevs/user-access-api/internal/infrastructure/db/redis"
	"github.com/sundevs/user-access-api/internal/infrastructure/queue"
	"github.com/sundevs/user-access-api/internal/pkg/config"
	"github.com/sundevs/user-access-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from cfg, so fall back to a bare one.
		l := zerolog.New(os.Stderr).With().Timestamp().Logger()
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "user-access-api",
		Env:     cfg.Env,
	})
	log.Info().Str("driver", cfg.DirectoryDriver).Msg("starting")

	tokens, err := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}

	// The pool outlives the signal context so in-flight requests can finish
	// hashing during shutdown.
	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	pool := queue.NewPool(cfg.HashWorkers, logger.Component("hash-pool"))
	pool.Start(poolCtx)
	hasher := crypto.NewBcryptHasher(pool)

	directory, checks, closeDirectory, err := openDirectory(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("user directory")
	}
	defer closeDirectory()

	if _, err := service.EnsureAdmin(ctx, directory, hasher, cfg.Admin.Email, cfg.Admin.Password, logger.Component("bootstrap")); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.Run(ctx)

	router := api.NewRouter(api.Dependencies{
		Auth:        service.NewAuthService(directory, hasher, tokens, logger.Component("auth")),
		Users:       service.NewUserService(directory, cfg.UsersPageSize, logger.Component("users")),
		Tokens:      tokens,
		Health:      checks,
		RateLimiter: limiter,
		Logger:      logger.Component("http"),
	})
	server := api.NewServer(":"+cfg.Port, router, cfg.CORSAllowedOrigins)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// openDirectory connects the configured user store, optionally fronted by the
// Redis cache, and returns readiness checks for every backend it opened.
func openDirectory(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.UserDirectory, map[string]handler.HealthCheck, func(), error) {
	checks := map[string]handler.HealthCheck{}
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var directory ports.UserDirectory
	switch cfg.DirectoryDriver {
	case config.DriverMemory:
		log.Warn().Msg("using in-memory user directory; data is lost on restart")
		directory = memory.NewUserDirectory()

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

		dir := mongo.NewUserDirectory(db)
		if err := dir.EnsureIndexes(ctx); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		directory = dir

	case config.DriverPostgres:
		if err := postgres.RunMigrations(cfg.Postgres.URL); err != nil {
			return nil, nil, nil, err
		}
		db, err := postgres.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		checks["postgres"] = db.PingContext
		directory = postgres.NewUserDirectory(db)
	}

	if cfg.Redis.Enabled && cfg.DirectoryDriver != config.DriverMemory {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		directory = redis.NewCachedDirectory(directory, rdb, cfg.Redis.CacheTTL, logger.Component("user-cache"))
	}

	return directory, checks, closeAll, nil
}
