package newsdata

import (
	"context"
	"time"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	xlogger "StockSentry/pkg/logger"
	"StockSentry/pkg/util"

	"github.com/go-resty/resty/v2"
)

// Config holds news provider settings.
type Config struct {
	APIURL   string
	APIKey   string
	Country  string
	Language string
	PageSize int
	Timeout  time.Duration
}

// Client implements NewsSource against a newsdata.io-style REST API.
type Client struct {
	http    *resty.Client
	cfg     Config
	logger  *xlogger.Logger
	metrics drepo.Metrics
}

// New creates a news gateway.
func New(cfg Config, logger *xlogger.Logger, metrics drepo.Metrics) drepo.NewsSource {
	http := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)
	return &Client{http: http, cfg: cfg, logger: logger, metrics: metrics}
}

type article struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	PubDate string `json:"pubDate"`
}

type newsResponse struct {
	Status  string    `json:"status"`
	Results []article `json:"results"`
}

// GetNews returns recent articles for ticker, provider order preserved.
// Failures and malformed items degrade to an empty / shorter slice.
func (c *Client) GetNews(ctx context.Context, ticker models.Ticker) []models.NewsItem {
	var out newsResponse
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   c.cfg.APIKey,
			"q":        string(ticker),
			"country":  c.cfg.Country,
			"language": c.cfg.Language,
		}).
		SetResult(&out).
		Get(c.cfg.APIURL)
	c.metrics.RecordFetchLatency("news", time.Since(start).Seconds())

	if err != nil {
		c.metrics.RecordFetchError("news")
		c.logger.Warn("news fetch failed",
			xlogger.String("ticker", string(ticker)), xlogger.Error(err))
		return nil
	}
	if resp.StatusCode() != 200 || out.Status != "success" {
		c.metrics.RecordFetchError("news")
		c.logger.Warn("news fetch rejected",
			xlogger.String("ticker", string(ticker)),
			xlogger.Int("status", resp.StatusCode()))
		return nil
	}

	items := make([]models.NewsItem, 0, len(out.Results))
	for _, a := range out.Results {
		// Skip malformed entries rather than failing the whole batch.
		if a.Title == "" || a.Link == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Ticker:      ticker,
			Title:       a.Title,
			URL:         a.Link,
			PublishedAt: util.ParseTimeDefault(a.PubDate, time.Time{}),
		})
		if len(items) >= c.cfg.PageSize {
			break
		}
	}
	return items
}
