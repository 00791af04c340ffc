package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/dairy_shop/internal/config"
	"github.com/Skotchmaster/dairy_shop/internal/db"
	"github.com/Skotchmaster/dairy_shop/internal/gateway"
	"github.com/Skotchmaster/dairy_shop/internal/httpserver"
	"github.com/Skotchmaster/dairy_shop/internal/idempotency"
	"github.com/Skotchmaster/dairy_shop/internal/ledger"
	"github.com/Skotchmaster/dairy_shop/internal/logging"
	"github.com/Skotchmaster/dairy_shop/internal/metrics"
	"github.com/Skotchmaster/dairy_shop/internal/middleware/auth"
	"github.com/Skotchmaster/dairy_shop/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/dairy_shop/internal/middleware/logging"
	"github.com/Skotchmaster/dairy_shop/internal/notify"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	"github.com/Skotchmaster/dairy_shop/internal/search"
	"github.com/Skotchmaster/dairy_shop/internal/service"
)

func main() {
	cfg := config.Load(".env")
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := cfg.ValidateServer(); err != nil {
		logger.Error("config_error", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}()
	if err := db.Migrate(gdb); err != nil {
		return err
	}

	r := repo.New(gdb)
	l := ledger.New(cfg.LockTimeout)
	m := metrics.New()
	health := &httpserver.HealthHTTP{DB: gdb, Optional: map[string]httpserver.Pinger{}}

	var notifier notify.Notifier = notify.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kn := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		defer func() {
			if err := kn.Close(); err != nil {
				logger.Error("kafka_close_error", "error", err)
			}
		}()
		notifier = kn
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}

	catalog := &service.CatalogService{Repo: r, Ledger: l}
	if cfg.ESURL != "" {
		idx, err := search.New(search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			return err
		}
		catalog.Index = idx
		health.Optional["elasticsearch"] = idx
	}

	payments := &service.PaymentService{Repo: r, PublishableKey: cfg.StripePublishableKey}
	if cfg.StripeSecretKey != "" {
		payments.Gateway = gateway.NewStripe(cfg.StripeSecretKey, cfg.StripePublishableKey)
	} else {
		logger.Warn("payments_disabled", "reason", "STRIPE_SECRET_KEY is empty")
	}

	var guard idempotency.Guard
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Error("redis_close_error", "error", err)
			}
		}()
		guard = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
		health.Optional["redis"] = httpserver.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTAccessSecret, RefreshSecret: cfg.JWTRefreshSecret}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(m.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure: true,
			SkipPrefixes: []string{
				"/api/v1/login",
				"/api/v1/register",
				"/api/v1/auth/refresh",
				"/health",
				"/metrics",
			},
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Catalog:   &httpserver.CatalogHTTP{Svc: catalog},
		Customers: &httpserver.CustomerHTTP{Svc: &service.CustomerService{Repo: r}},
		Carts:     &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		Wishlists: &httpserver.WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		Reviews:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		Orders: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:     r,
			Ledger:   l,
			Notifier: notifier,
			Metrics:  m,
		}},
		Payments: &httpserver.PaymentHTTP{Svc: payments},
		Health:   health,

		AuthMW:      auth.New(cfg.JWTAccessSecret, authSvc),
		Idempotency: guard,
		Metrics:     m,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("shutdown_complete")
	return nil
}
