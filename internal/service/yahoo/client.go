package yahoo

import (
	"context"
	"fmt"
	"time"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	xlogger "StockSentry/pkg/logger"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// Client implements MarketData against Yahoo Finance.
type Client struct {
	timeout time.Duration
	logger  *xlogger.Logger
	metrics drepo.Metrics
}

// New creates a Yahoo Finance market data gateway.
func New(timeout time.Duration, logger *xlogger.Logger, metrics drepo.Metrics) drepo.MarketData {
	return &Client{timeout: timeout, logger: logger, metrics: metrics}
}

// GetPrice returns the latest regular market price. Any failure, including a
// timeout, yields an absent quote; nothing propagates to the scheduler.
func (c *Client) GetPrice(ctx context.Context, ticker models.Ticker) models.PriceQuote {
	absent := models.PriceQuote{Ticker: ticker}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		price float64
		err   error
	}

	// quote.Get has no context support; run it in a goroutine and race the
	// deadline so a stuck provider call cannot block the tick.
	ch := make(chan result, 1)
	start := time.Now()
	go func() {
		q, err := quote.Get(string(ticker))
		if err != nil {
			ch <- result{err: err}
			return
		}
		if q == nil {
			ch <- result{err: fmt.Errorf("empty quote for %s", ticker)}
			return
		}
		ch <- result{price: q.RegularMarketPrice}
	}()

	select {
	case <-ctx.Done():
		c.metrics.RecordFetchError("price")
		c.logger.Warn("price fetch timed out", xlogger.String("ticker", string(ticker)))
		return absent
	case r := <-ch:
		c.metrics.RecordFetchLatency("price", time.Since(start).Seconds())
		if r.err != nil {
			c.metrics.RecordFetchError("price")
			c.logger.Warn("price fetch failed",
				xlogger.String("ticker", string(ticker)), xlogger.Error(r.err))
			return absent
		}
		c.metrics.RecordLastPrice(string(ticker), r.price)
		return models.PriceQuote{
			Ticker: ticker,
			Value:  decimal.NewFromFloat(r.price),
			Valid:  true,
		}
	}
}
