package main

import (
	"cart-service/internal/api"
	"cart-service/internal/client"
	"cart-service/internal/config"
	"cart-service/internal/lock"
	"cart-service/internal/metrics"
	"cart-service/internal/repository"
	"cart-service/internal/service"
	"cart-service/migrations"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jpillora/backoff"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var cli struct {
	Config config.Config `embed:""`
}

func connectDB(ctx context.Context, dsn string, retries int) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	retry := backoff.Backoff{Min: time.Second, Max: 5 * time.Second}
	for i := 0; i < retries; i++ {
		if err = db.PingContext(ctx); err == nil {
			log.Info().Msg("Connected to DB")
			return db, nil
		}
		log.Warn().Err(err).Msgf("Retry %d: failed to connect to DB", i+1)
		time.Sleep(retry.Duration())
	}
	db.Close()
	return nil, fmt.Errorf("failed to connect to DB after %d retries: %w", retries, err)
}

func main() {
	kctx := kong.Parse(&cli, kong.Description("Shared shopping cart with checkout against catalog, inventory and order services."))
	cfg := cli.Config

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	kctx.FatalIfErrorf(err)
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "cart-service").Logger()

	// Totals are written as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connectDB(ctx, cfg.DSN(), cfg.DBRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer db.Close()

	if err := migrations.AutoMigrateCartItems(ctx, db, cfg.DBRetries); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate cart_items table")
	}

	var locker service.Locker = lock.NewLocal()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		defer rdb.Close()
		locker = lock.NewRedis(rdb, cfg.CheckoutLockKey, cfg.CheckoutLockTTL)
	}

	var events service.MessageWriter
	if kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic); kafkaWriter != nil {
		defer kafkaWriter.Close()
		events = kafkaWriter
	}

	registry := prometheus.NewRegistry()
	serverMetrics := metrics.NewServerMetrics(registry)

	httpClient := &http.Client{Timeout: cfg.RemoteTimeout}
	productClient := client.NewProductClient(cfg.ProductServiceURL, httpClient, cfg.RemoteTimeout)
	inventoryClient := client.NewInventoryClient(cfg.InventoryServiceURL, httpClient, cfg.RemoteTimeout)
	orderClient := client.NewOrderClient(cfg.OrderServiceURL, httpClient, cfg.RemoteTimeout)

	cartRepo := repository.NewCartRepository(db)
	cartService := service.NewCartService(cartRepo, productClient)
	checkoutService := service.NewCheckoutService(cartRepo, orderClient, inventoryClient, locker, events, serverMetrics, cfg.CheckoutLockWait)
	cartHandler := api.NewCartHandler(cartService, checkoutService)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Dur("latency", v.Latency).Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(serverMetrics.Middleware())

	if cfg.RateLimit > 0 {
		limiterConfig := middleware.RateLimiterConfig{
			Skipper: middleware.DefaultSkipper,
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(cfg.RateLimit),
					Burst:     cfg.RateBurst,
					ExpiresIn: 3 * time.Minute,
				}),
			IdentifierExtractor: func(context echo.Context) (string, error) {
				return context.RealIP(), nil
			},
			ErrorHandler: func(context echo.Context, err error) error {
				return context.JSON(http.StatusForbidden, map[string]string{"error": "rate limiter error"})
			},
			DenyHandler: func(context echo.Context, identifier string, err error) error {
				return context.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			},
		}
		e.Use(middleware.RateLimiterWithConfig(limiterConfig))
	}

	api.RegisterRoutes(e, cartHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	go func() {
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
}
