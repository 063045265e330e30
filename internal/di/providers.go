package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	internalrepo "StockPulse/internal/repository"
	"StockPulse/internal/screener"
	"StockPulse/internal/service/marketdata"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/services/sentiment"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	pkgkafka "StockPulse/pkg/kafka"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the gateway response cache, in-memory or Redis
// depending on config.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix("stockpulse"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	case "memory", "":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("%w: unknown cache backend %q", models.ErrConfiguration, cfg.Cache.Backend)
	}
}

// ProvideGateway creates the market data gateway client.
func ProvideGateway(cfg *config.Config, cc cache.Service, log *logger.Logger) *marketdata.Gateway {
	return marketdata.New(marketdata.Config{
		BaseURL:  cfg.Gateway.BaseURL,
		Timeout:  cfg.Gateway.Timeout,
		CacheTTL: cfg.Cache.TTL,
	}, cc, log)
}

// ProvideRateGate creates the shared sentiment rate gate.
func ProvideRateGate(cfg *config.Config) *ratelimit.Gate {
	return ratelimit.NewGate(cfg.Sentiment.MinInterval, ratelimit.RealClock())
}

// ProvideSentimentAnalyzer creates the LLM sentiment analyzer.
func ProvideSentimentAnalyzer(cfg *config.Config, gate *ratelimit.Gate, m domrepo.Metrics, log *logger.Logger) domsvc.SentimentAnalyzer {
	return sentiment.New(sentiment.Config{
		APIKey:    cfg.Sentiment.APIKey,
		Model:     cfg.Sentiment.Model,
		MaxTokens: cfg.Sentiment.MaxTokens,
		Timeout:   cfg.Sentiment.Timeout,
	}, gate, m, log)
}

// ProvideScreener creates the pattern and flow screener.
func ProvideScreener(cfg *config.Config, log *logger.Logger) *screener.Screener {
	return screener.New(screener.Config{
		Lookback:             cfg.Screen.Lookback,
		ContractionWindow:    cfg.Screen.ContractionWindow,
		ContractionThreshold: cfg.Screen.ContractionThreshold,
		StrongRatio:          cfg.Screen.StrongRatio,
		ProximityBand:        cfg.Screen.ProximityBand,
		FlowWindow:           cfg.Pipeline.FlowDays,
		StrongNet:            cfg.Screen.StrongNet,
	}, log)
}

// ProvideArtifactStore creates the file-backed run artifact store.
func ProvideArtifactStore(cfg *config.Config) domrepo.RunArtifactStore {
	return internalrepo.NewFileArtifactStore(cfg.Artifacts.Dir)
}

// ProvideRunHistory connects ClickHouse and ensures the history table
// exists. Returns nil when the backend is disabled.
func ProvideRunHistory(cfg *config.Config) (domrepo.RunHistory, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	history := internalrepo.NewClickHouseHistory(client.DB(), cfg.ClickHouse.Database+".signal_history")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	if err := history.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return history, nil
}

// ProvidePublisher creates the Kafka run publisher. Returns nil when the
// backend is disabled.
func ProvidePublisher(cfg *config.Config) (domrepo.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideSignalGenerator assembles the pipeline use case.
func ProvideSignalGenerator(
	cfg *config.Config,
	gw *marketdata.Gateway,
	analyzer domsvc.SentimentAnalyzer,
	scr *screener.Screener,
	store domrepo.RunArtifactStore,
	publisher domrepo.Publisher,
	history domrepo.RunHistory,
	m domrepo.Metrics,
	log *logger.Logger,
) *usecase.SignalGenerator {
	markets := make([]models.Market, 0, len(cfg.Pipeline.Markets))
	for _, s := range cfg.Pipeline.Markets {
		markets = append(markets, models.Market(s))
	}
	return usecase.NewSignalGenerator(usecase.Deps{
		Market:    gw,
		Flows:     gw,
		News:      gw,
		Analyzer:  analyzer,
		Screener:  scr,
		Store:     store,
		Publisher: publisher,
		History:   history,
		Metrics:   m,
		Log:       log,
	}, usecase.Config{
		Markets:      markets,
		TopMovers:    cfg.Pipeline.TopMovers,
		MaxPositions: cfg.Pipeline.MaxPositions,
		Capital:      cfg.Pipeline.Capital,
		NewsLimit:    cfg.Pipeline.NewsLimit,
		FlowDays:     cfg.Pipeline.FlowDays,
		FetchTimeout: cfg.Pipeline.FetchTimeout,
	})
}

// ProvideApp creates the application and registers resource teardown.
func ProvideApp(
	cfg *config.Config,
	gen *usecase.SignalGenerator,
	log *logger.Logger,
	cc cache.Service,
	publisher domrepo.Publisher,
	history domrepo.RunHistory,
) *server.App {
	app := server.New(cfg, gen, log)
	app.AddCloser("cache", cc.Close)
	if publisher != nil {
		app.AddCloser("kafka publisher", publisher.Close)
	}
	if history != nil {
		app.AddCloser("clickhouse history", history.Close)
	}
	return app
}
