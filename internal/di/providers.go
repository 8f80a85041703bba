package di

import (
	"context"
	"fmt"
	"time"

	"MacroPull/internal/catalog"
	"MacroPull/internal/domain/repository"
	"MacroPull/internal/handler/api"
	mid "MacroPull/internal/middleware"
	internalrepo "MacroPull/internal/repository"
	"MacroPull/internal/service/fetcher"
	"MacroPull/internal/service/fred"
	"MacroPull/internal/service/ratelimit"
	"MacroPull/internal/service/yahoo"
	"MacroPull/internal/services/analytics"
	"MacroPull/internal/usecase"
	"MacroPull/pkg/cache"
	pkgch "MacroPull/pkg/clickhouse"
	"MacroPull/pkg/config"
	xhttp "MacroPull/pkg/http"
	pkgkafka "MacroPull/pkg/kafka"
	"MacroPull/pkg/logger"
	"MacroPull/pkg/metrics"
	"MacroPull/pkg/server"

	"github.com/labstack/echo/v4"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideCatalog validates and returns the built-in series table.
func ProvideCatalog() (*catalog.Catalog, error) {
	return catalog.New(catalog.DefaultTable())
}

// ProvideFREDClient creates the statistical provider client.
func ProvideFREDClient(cfg *config.Config) *fred.Client {
	return fred.New(cfg.Providers.FRED.APIKey,
		fred.WithBaseURL(cfg.Providers.FRED.BaseURL),
		fred.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.FRED.Timeout))),
	)
}

// ProvideYahooClient creates the quote provider client.
func ProvideYahooClient(cfg *config.Config) *yahoo.Client {
	return yahoo.New(
		yahoo.WithBaseURL(cfg.Providers.Yahoo.BaseURL),
		yahoo.WithHTTPClient(xhttp.NewClient(
			xhttp.WithTimeout(cfg.Providers.Yahoo.Timeout),
			xhttp.WithUserAgent(cfg.Providers.Yahoo.UserAgent),
		)),
	)
}

// ProvideFetcher throttles and instruments both providers.
func ProvideFetcher(cfg *config.Config, fc *fred.Client, yc *yahoo.Client, rec *metrics.Recorder, l *logger.Logger) *fetcher.Fetcher {
	return fetcher.New(fc, yc,
		fetcher.WithLimit(fetcher.ProviderStatistical, cfg.Providers.FRED.RPS, cfg.Providers.FRED.Burst),
		fetcher.WithLimit(fetcher.ProviderQuote, cfg.Providers.Yahoo.RPS, cfg.Providers.Yahoo.Burst),
		fetcher.WithMetrics(rec),
		fetcher.WithLogger(l),
	)
}

// ProvideCacheLayer creates the in-process cache, backed by Redis when
// enabled. The cleanup closes the Redis client.
func ProvideCacheLayer(cfg *config.Config, rec *metrics.Recorder, l *logger.Logger) (*cache.Layer, func(), error) {
	opts := []cache.LayerOption{
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithRecorder(rec),
		cache.WithLogger(l),
	}
	cleanup := func() {}

	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 2, 30*time.Second),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		opts = append(opts, cache.WithStore(rc))
		cleanup = func() { _ = rc.Close() }
	}
	return cache.NewLayer(opts...), cleanup, nil
}

// ProvideKafkaProducer creates a Kafka producer when the archive or the log
// collector needs one, nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if cfg.Archive.Backend != config.BackendKafka && !cfg.Log.Collector.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithClientID(cfg.Kafka.ClientID),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatch(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideClickHouseClient connects to ClickHouse when it is the archive
// backend, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Archive.Backend != config.BackendClickHouse {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(cfg.ClickHouse.MaxOpenConns),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideArchiver builds the series archiver for the configured backend and
// creates the ClickHouse table when needed.
func ProvideArchiver(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	ch *pkgch.Client,
	rec *metrics.Recorder,
	l *logger.Logger,
) (*usecase.SeriesArchiver, error) {
	var (
		pub   repository.Publisher
		store repository.Storage
	)
	switch cfg.Archive.Backend {
	case config.BackendKafka:
		pub = internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	case config.BackendClickHouse:
		s := internalrepo.NewClickHouseStorage(ch.DB(), ch.Database(), cfg.ClickHouse.Table)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Init(ctx); err != nil {
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		store = s
	}
	return usecase.NewSeriesArchiver(pub, store, rec, l, cfg.Archive.Backend, cfg.Archive.Timeout,
		usecase.WithQueueSize(cfg.Archive.QueueSize),
	), nil
}

// ProvideEngine creates the analytics engine.
func ProvideEngine(f *fetcher.Fetcher, c *catalog.Catalog, l *logger.Logger) *analytics.Engine {
	return analytics.NewEngine(f, c, l)
}

// ProvideDashboard creates the dashboard use case.
func ProvideDashboard(
	cfg *config.Config,
	f *fetcher.Fetcher,
	c *catalog.Catalog,
	e *analytics.Engine,
	layer *cache.Layer,
	archiver *usecase.SeriesArchiver,
	l *logger.Logger,
) *usecase.Dashboard {
	return usecase.NewDashboard(f, c, e, layer,
		usecase.WithTTL(cfg.Cache.TTL),
		usecase.WithTimeout(cfg.Dashboard.Timeout),
		usecase.WithArchiver(archiver),
		usecase.WithLogger(l),
	)
}

// ProvideRateLimiter creates the per-client limiter, nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideDashboardHandler registers the API routes behind the rate limiter.
// A ClickHouse archive is pinged by /healthz.
func ProvideDashboardHandler(cfg *config.Config, l *logger.Logger, dash *usecase.Dashboard, lim *ratelimit.Limiter, archiver *usecase.SeriesArchiver) *api.DashboardHandler {
	var mw []echo.MiddlewareFunc
	if lim != nil {
		mw = append(mw, mid.RateLimit(lim, l))
	}
	h := api.NewDashboardHandler(l, dash, mw...)
	if cfg.Archive.Backend == config.BackendClickHouse {
		h.AddHealthCheck("clickhouse", archiver.Health)
	}
	return h
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.DashboardHandler, l *logger.Logger) *xhttp.Server {
	return xhttp.NewServer(h,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(true, cfg.Server.CORSOrigins...),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application and attaches the log collector when
// enabled.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	l *logger.Logger,
	producer *pkgkafka.Producer,
	archiver *usecase.SeriesArchiver,
	lim *ratelimit.Limiter,
) *server.App {
	if cfg.Log.Collector.Enabled && producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   cfg.Log.Collector.Interval,
			CountThreshold: cfg.Log.Collector.Threshold,
			Topic:          cfg.Log.Collector.Topic,
			Publisher:      producer,
			IncludeWarn:    cfg.Log.Collector.Warn,
		})
	}
	return server.New(cfg, srv, l, archiver, lim)
}
