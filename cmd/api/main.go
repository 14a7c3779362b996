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

	"bookcatalog/internal/auth"
	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/like"
	"bookcatalog/internal/platform/logger"
	platformredis "bookcatalog/internal/platform/redis"
	"bookcatalog/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 15 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		Output:   cfg.LogOutput,
		FilePath: cfg.LogFile,
		Env:      cfg.Environment,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync(log) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DatabaseDSN, log)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	var (
		redisClient *redis.Client
		denylist    httpx.Denylist
		revoker     auth.Revoker
	)
	if cfg.RedisURL != "" {
		redisClient, err = platformredis.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		d := auth.NewRedisDenylist(redisClient)
		denylist, revoker = d, d
	} else {
		d := auth.NewPostgresDenylist(dbPool, cfg.DBTimeout)
		denylist, revoker = d, d
		go cleanupRevoked(ctx, d, log)
		log.Info("REDIS_URL not set, revoked tokens are kept in postgres")
	}

	bookRepository := book.NewPostgresRepo(dbPool, cfg.DBTimeout)
	userRepository := user.NewPostgresRepo(dbPool, cfg.DBTimeout)
	likeRepository := like.NewPostgresRepo(dbPool, cfg.DBTimeout)

	bookService := book.NewService(bookRepository)
	userService := user.NewService(userRepository)
	likeService := like.NewService(likeRepository, userService)
	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, userService, revoker)

	router := newRouter(handlers{
		book: book.NewHTTPHandler(bookService, log),
		user: user.NewHTTPHandler(userService),
		like: like.NewHTTPHandler(likeService, log),
		auth: auth.NewHTTPHandler(authService, cfg.JWTSecret, log),
	}, cfg.JWTSecret, denylist, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		if err := dbPool.Ping(pingCtx); err != nil {
			return err
		}
		if redisClient != nil {
			return platformredis.Ping(pingCtx, redisClient)
		}
		return nil
	})

	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(log),
		httpx.AccessLogMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Environment))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, dsn string, log *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", config.RedactDSN(dsn), err)
	}
	log.Info("database connection OK", zap.String("dsn", config.RedactDSN(dsn)))
	return pool, nil
}

// cleanupRevoked prunes expired denylist rows until ctx is done.
func cleanupRevoked(ctx context.Context, d *auth.PostgresDenylist, log *zap.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := d.CleanupExpired(ctx)
			if err != nil {
				log.Warn("denylist cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("denylist cleanup", zap.Int64("removed", n))
			}
		}
	}
}
