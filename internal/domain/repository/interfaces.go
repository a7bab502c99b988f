package repository

import (
	"context"
	"time"

	"StockSentry/internal/domain/models"
)

// MarketData fetches the latest price for a ticker. Provider failure yields
// a quote with Valid=false, never an error: the scheduler treats absence as
// a degraded value, not a fault.
type MarketData interface {
	GetPrice(ctx context.Context, ticker models.Ticker) models.PriceQuote
}

// NewsSource fetches recent articles for a ticker, provider order preserved
// (assumed reverse-chronological). Failure yields an empty slice.
type NewsSource interface {
	GetNews(ctx context.Context, ticker models.Ticker) []models.NewsItem
}

// SentimentScorer classifies a text snippet.
type SentimentScorer interface {
	Score(text string) models.Sentiment
}

// PortfolioSource loads the current user -> portfolio mapping. It is read
// fresh every tick so configuration edits take effect on the next tick.
type PortfolioSource interface {
	Load() ([]models.User, error)
}

// Messenger delivers a formatted message to one chat. Exactly one attempt;
// the caller decides what to do with a failure.
type Messenger interface {
	Send(ctx context.Context, chatID, text string) error
}

// SeenStore tracks which news titles have already been delivered per ticker.
type SeenStore interface {
	// Seen reports whether title was already delivered for ticker.
	Seen(ctx context.Context, ticker models.Ticker, title string) bool
	// Mark records title as delivered for ticker. Idempotent.
	Mark(ctx context.Context, ticker models.Ticker, title string)
	// FilterNew returns, in input order, only items whose title has not been
	// seen for ticker, marking each returned title as seen. Check-and-mark is
	// a single logical operation: two concurrent calls never both return the
	// same title.
	FilterNew(ctx context.Context, ticker models.Ticker, items []models.NewsItem) []models.NewsItem
}

// Metrics records operational counters for the scheduler and gateways.
type Metrics interface {
	RecordTick()
	RecordDelivery(chatID string, ok bool)
	RecordFetchError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordFetchLatency(op string, seconds float64)
}

// HealthStatus is the shared view between the scheduler and the web surface.
type HealthStatus struct {
	Degraded            bool      `json:"degraded"`
	LastTick            time.Time `json:"last_tick"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
}

// Health is the only state shared between the scheduler loop and the
// liveness endpoint.
type Health interface {
	TickOK(at time.Time)
	TickFailed()
	Snapshot() HealthStatus
}
