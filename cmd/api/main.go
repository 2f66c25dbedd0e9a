package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron"
	"go.uber.org/zap"

	"avance/internal/cache"
	"avance/internal/models"
)

type application struct {
	logger    *zap.Logger
	metrics   *metrics
	products  models.ProductStore
	orders    models.OrderStore
	customers models.CustomerStore
	contacts  models.ContactStore
}

func main() {
	// A missing .env file is fine; the environment wins anyway.
	_ = godotenv.Load()

	addr := flag.String("addr", getenvDefault("ADDR", ":4000"), "HTTP network address")
	flag.Parse()

	logger := mustNewLogger(getenvDefault("SERVICE_NAME", "avance-api"), getenvDefault("ENV", "dev"))
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		logger.Fatal("config_missing", zap.String("var", "MONGODB_URI"))
	}
	client, err := models.OpenDB(uri)
	if err != nil {
		logger.Fatal("mongo_connect_failed", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	logger.Info("mongo_connected")

	db := client.Database(getenvDefault("MONGODB_DB", "avance"))
	if err := models.EnsureIndexes(context.Background(), db); err != nil {
		logger.Fatal("mongo_indexes_failed", zap.Error(err))
	}

	var productCache *cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		productCache, err = cache.New(redisAddr, 30*time.Second)
		if err != nil {
			logger.Warn("redis_unavailable", zap.Error(err))
			productCache = nil
		} else {
			defer func() { _ = productCache.Close() }()
			logger.Info("redis_connected", zap.String("addr", redisAddr))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	app := &application{
		logger:  logger,
		metrics: newMetrics(reg),
		products: &models.ProductModel{
			C:     db.Collection(models.CollProducts),
			Cache: productCache,
		},
		orders: &models.OrderModel{
			Orders:   db.Collection(models.CollOrders),
			Items:    db.Collection(models.CollOrderItems),
			Products: db.Collection(models.CollProducts),
			Cache:    productCache,
		},
		customers: &models.CustomerModel{C: db.Collection(models.CollCustomers)},
		contacts:  &models.ContactModel{C: db.Collection(models.CollContactMessages)},
	}

	c := cron.New()
	if err := c.AddFunc("@midnight", app.sweepPendingOrders); err != nil {
		logger.Fatal("cron_schedule_failed", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:         *addr,
		Handler:      app.routes(reg),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", zap.String("addr", srv.Addr))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}

// mustNewLogger builds a production JSON logger tagged with the service name
// and environment.
func mustNewLogger(service, env string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}
	cfg.InitialFields = map[string]any{
		"service": service,
		"env":     env,
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
