package di

import (
	"fmt"

	drepo "StockSentry/internal/domain/repository"
	internalrepo "StockSentry/internal/repository"
	"StockSentry/internal/service/newsdata"
	"StockSentry/internal/service/sentiment"
	"StockSentry/internal/service/telegram"
	"StockSentry/internal/service/yahoo"
	"StockSentry/internal/usecase"

	"StockSentry/internal/handler/api"
	"StockSentry/pkg/config"
	xhttp "StockSentry/pkg/http"
	applogger "StockSentry/pkg/logger"
	"StockSentry/pkg/metrics"
	"StockSentry/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideHealth creates the shared health tracker.
func ProvideHealth() drepo.Health {
	return internalrepo.NewHealthTracker()
}

// ProvidePortfolioSource creates the CSV portfolio loader.
func ProvidePortfolioSource(cfg *config.Config) drepo.PortfolioSource {
	return internalrepo.NewCSVPortfolio(cfg.Portfolio.Path)
}

// ProvideSeenStore creates the configured dedup backend.
func ProvideSeenStore(cfg *config.Config) (drepo.SeenStore, error) {
	switch cfg.Dedup.Backend {
	case "redis":
		store, err := internalrepo.NewRedisSeen(internalrepo.RedisSeenConfig{
			Addr:     cfg.Dedup.Redis.Addr,
			Password: cfg.Dedup.Redis.Password,
			DB:       cfg.Dedup.Redis.DB,
			TTL:      cfg.Dedup.Redis.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("seen store: %w", err)
		}
		return store, nil
	default:
		return internalrepo.NewMemorySeen(cfg.Dedup.MaxTitles), nil
	}
}

// ProvideMarketData creates the Yahoo Finance gateway.
func ProvideMarketData(cfg *config.Config, l *applogger.Logger, m drepo.Metrics) drepo.MarketData {
	return yahoo.New(cfg.Scheduler.FetchTimeout, l, m)
}

// ProvideNewsSource creates the news gateway.
func ProvideNewsSource(cfg *config.Config, l *applogger.Logger, m drepo.Metrics) drepo.NewsSource {
	return newsdata.New(newsdata.Config{
		APIURL:   cfg.News.APIURL,
		APIKey:   cfg.News.APIKey,
		Country:  cfg.News.Country,
		Language: cfg.News.Language,
		PageSize: cfg.News.PageSize,
		Timeout:  cfg.News.Timeout,
	}, l, m)
}

// ProvideMessenger creates the Telegram gateway.
func ProvideMessenger(cfg *config.Config, l *applogger.Logger) drepo.Messenger {
	return telegram.New(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.Timeout, l)
}

// ProvideSentimentScorer creates the lexicon scorer, or nil when disabled.
func ProvideSentimentScorer(cfg *config.Config) drepo.SentimentScorer {
	if !cfg.Sentiment.Enabled {
		return nil
	}
	return sentiment.New()
}

// ProvideDigestBuilder creates the digest builder.
func ProvideDigestBuilder() *usecase.DigestBuilder {
	return usecase.NewDigestBuilder()
}

// ProvideScheduler creates the scheduler loop.
func ProvideScheduler(
	cfg *config.Config,
	portfolios drepo.PortfolioSource,
	market drepo.MarketData,
	news drepo.NewsSource,
	seen drepo.SeenStore,
	scorer drepo.SentimentScorer,
	messenger drepo.Messenger,
	builder *usecase.DigestBuilder,
	m drepo.Metrics,
	health drepo.Health,
	l *applogger.Logger,
) (*usecase.Scheduler, error) {
	return usecase.NewScheduler(usecase.Config{
		Interval:     cfg.Scheduler.Interval,
		MarketOpen:   cfg.Scheduler.MarketOpen,
		MarketClose:  cfg.Scheduler.MarketClose,
		ReportHour:   cfg.Scheduler.ReportHour,
		Timezone:     cfg.Scheduler.Timezone,
		FetchTimeout: cfg.Scheduler.FetchTimeout,
		Workers:      cfg.Scheduler.Workers,
	}, usecase.Deps{
		Portfolios: portfolios,
		Market:     market,
		News:       news,
		Seen:       seen,
		Scorer:     scorer,
		Messenger:  messenger,
		Builder:    builder,
		Metrics:    m,
		Health:     health,
		Logger:     l,
	})
}

// ProvideStatusHandler creates the ops HTTP handler.
func ProvideStatusHandler(
	cfg *config.Config,
	l *applogger.Logger,
	market drepo.MarketData,
	news drepo.NewsSource,
	messenger drepo.Messenger,
	health drepo.Health,
) xhttp.Handler {
	return api.NewStatusHandler(l, market, news, messenger, health, cfg.Scheduler.FetchTimeout)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	scheduler *usecase.Scheduler,
	handler xhttp.Handler,
	seen drepo.SeenStore,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, scheduler, handler, seen, l)
}
