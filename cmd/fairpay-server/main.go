// cmd/fairpay-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	api "fairpay/internal/api/http"
	"fairpay/internal/common/cache"
	"fairpay/internal/common/camunda"
	"fairpay/internal/common/config"
	"fairpay/internal/common/database"
	"fairpay/internal/common/errors"
	"fairpay/internal/common/logger"
	"fairpay/internal/common/metrics"
	"fairpay/internal/common/observability"
	"fairpay/internal/dataset"
	"fairpay/internal/search"
	"fairpay/internal/service"
)

// retryWithBackoff runs operation until it succeeds, maxRetries is reached or ctx ends.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"app": cfg.App.Name})

	zapLog.Info("Starting fairpay server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Dataset ---
	var tables *dataset.Tables
	loadDataset := func() error {
		var err error
		tables, err = dataset.LoadConfigured(ctx, cfg, log)
		return err
	}
	if cfg.Dataset.Source == config.DatasetSourceSQL {
		// The database may still be starting. Invalid data is not retried.
		var invalid error
		err = retryWithBackoff(ctx, func() error {
			err := loadDataset()
			if errors.IsCode(err, errors.ErrCodeDatasetInvalid) {
				invalid = err
				return nil
			}
			return err
		}, 10, 2*time.Second, log, "Dataset load")
		if invalid != nil {
			err = invalid
		}
	} else {
		err = loadDataset()
	}
	if err != nil {
		zapLog.Fatal("dataset load failed", zap.Error(err))
	}
	metrics.SetDatasetRows(tables.Counts())

	// --- Redis (result cache) ---
	var rdb *redis.Client
	if cfg.Cache.Driver == config.CacheDriverRedis {
		rc := database.NewRedis(cfg.Database.Redis)
		if err := retryWithBackoff(ctx, func() error { return rc.Ping(ctx) }, 10, 2*time.Second, log, "Redis connection"); err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rc.Close()
		rdb = rc.Client
		zapLog.Info("Redis connected successfully")
	}

	resultCache, err := cache.New(cfg.Cache, rdb)
	if err != nil {
		zapLog.Fatal("cache init failed", zap.Error(err))
	}

	// --- Elasticsearch (occupation search) ---
	var esClient *elasticsearch.Client
	if cfg.Search.Driver == config.SearchDriverElasticsearch {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		if err := retryWithBackoff(ctx, func() error { return es.Ping(ctx) }, 10, 2*time.Second, log, "Elasticsearch connection"); err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		esClient = es.Client
		zapLog.Info("Elasticsearch connected successfully")
	}

	searcher, err := search.New(cfg.Search, esClient, tables.Occupations(), log)
	if err != nil {
		zapLog.Fatal("search init failed", zap.Error(err))
	}

	svc := service.New(tables, service.Options{
		Config:        cfg.Normalization.Salary(),
		Cache:         resultCache,
		Searcher:      searcher,
		Observability: obs,
		Logger:        log,
		SearchLimit:   cfg.Search.DefaultLimit,
	})

	// --- Zeebe workers ---
	var (
		zeebe   *camunda.Client
		workers []*camunda.CamundaWorker
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.Connect(ctx, camunda.ConfigFromApp(cfg.Camunda), log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		workers, err = startWorkers(zeebe.GetClient(), cfg, svc, log)
		if err != nil {
			zapLog.Fatal("worker registration failed", zap.Error(err))
		}
		zapLog.Info("Workers registered", zap.Int("count", len(workers)))
	}

	// --- HTTP API ---
	ready := func(ctx context.Context) error {
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		if zeebe != nil {
			return zeebe.HealthCheck(ctx)
		}
		return nil
	}
	router := api.NewRouter(api.Options{
		Service:        svc,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
		Ready:          ready,
		Metrics:        promhttp.Handler(),
	})
	srv := api.NewServer(cfg.Server, router)

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("fairpay server stopped")
}
