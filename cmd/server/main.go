package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"multitoko-be/internal/auth"
	"multitoko-be/internal/cart"
	"multitoko-be/internal/category"
	"multitoko-be/internal/config"
	"multitoko-be/internal/db"
	"multitoko-be/internal/discount"
	"multitoko-be/internal/handler"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/metrics"
	"multitoko-be/internal/middleware"
	"multitoko-be/internal/notification"
	"multitoko-be/internal/pricing"
	"multitoko-be/internal/product"
	"multitoko-be/internal/slug"
	"multitoko-be/internal/store"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	initRedisFunc   = newRedis
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	rdb := initRedisFunc(cfg)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	router := newServer(cfg, database, rdb)

	logger.L().Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	return startServerFunc(":"+cfg.AppPort, router)
}

func newRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// newServer wires repositories and services into the HTTP handler.
func newServer(cfg *config.Config, database *sql.DB, rdb *redis.Client) http.Handler {
	slugs := slug.NewGenerator(slug.NewRepository(database))

	storeSvc := store.NewService(store.NewRepository(database), slugs)
	categorySvc := category.NewService(category.NewRepository(database), slugs)
	discountSvc := discount.NewService(discount.NewRepository(database))
	quoter := pricing.NewQuoter(discountSvc)

	productSvc := product.NewService(
		product.NewRepository(database),
		slugs,
		storeSvc,
		categorySvc,
		quoter,
	)

	notifier := notification.Fanout{
		notification.LogNotifier{},
		notification.NewRedisNotifier(rdb),
	}
	cartSvc := cart.NewService(
		cart.NewRepository(rdb, cfg.CartTTL),
		productSvc,
		storeSvc,
		quoter,
		notifier,
	)

	h := &handler.Handler{
		Stores:     storeSvc,
		Categories: categorySvc,
		Products:   productSvc,
		Discounts:  discountSvc,
		Cart:       cartSvc,
		CartTTL:    cfg.CartTTL,
	}

	return setupRouter(cfg, h, metrics.NewRegistry())
}

// setupRouter mounts the API and wraps it in the middleware chain, outermost
// first: request id, metrics, access log, CORS, identity, rate limit.
func setupRouter(cfg *config.Config, h *handler.Handler, reg *metrics.Registry) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	mux.Handle("GET /metrics", middleware.RequireRole(auth.RoleOwner)(http.HandlerFunc(reg.Handler)))

	var next http.Handler = mux
	next = middleware.NewRateLimiter().Middleware(next)
	next = middleware.AuthMiddleware([]byte(cfg.JWTSecret), cfg.InternalSecretKey)(next)
	next = middleware.CORS(cfg.CORSOrigin)(next)
	next = logger.LoggingMiddleware(next)
	next = reg.Middleware(next)
	next = logger.RequestIDMiddleware(next)
	return next
}
