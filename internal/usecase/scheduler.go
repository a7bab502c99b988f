package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	xlogger "StockSentry/pkg/logger"
)

// Config holds the scheduler's timing policy.
type Config struct {
	Interval     time.Duration
	MarketOpen   string // "15:04"
	MarketClose  string // "15:04"
	ReportHour   int
	Timezone     string
	FetchTimeout time.Duration
	Workers      int
}

// Deps are the collaborators the scheduler drives each tick.
type Deps struct {
	Portfolios drepo.PortfolioSource
	Market     drepo.MarketData
	News       drepo.NewsSource
	Seen       drepo.SeenStore
	Scorer     drepo.SentimentScorer // nil disables sentiment labels
	Messenger  drepo.Messenger
	Builder    *DigestBuilder
	Metrics    drepo.Metrics
	Health     drepo.Health
	Logger     *xlogger.Logger
}

// Scheduler is the polling core: every Interval it loads portfolios, fans
// price/news fetches out over the distinct tickers, filters news through the
// seen store, and delivers per-user digests. Fresh updates only fire inside
// the market session window; the end-of-day summary fires once per user per
// local day when the wall-clock hour equals ReportHour.
type Scheduler struct {
	interval     time.Duration
	openMin      int
	closeMin     int
	reportHour   int
	loc          *time.Location
	fetchTimeout time.Duration
	workers      int

	deps Deps

	now func() time.Time

	mu          sync.Mutex
	summarySent map[string]string // chat id -> local date of last summary
}

// NewScheduler validates the timing config and builds the loop.
func NewScheduler(cfg Config, deps Deps) (*Scheduler, error) {
	open, err := time.Parse("15:04", cfg.MarketOpen)
	if err != nil {
		return nil, fmt.Errorf("market open: %w", err)
	}
	end, err := time.Parse("15:04", cfg.MarketClose)
	if err != nil {
		return nil, fmt.Errorf("market close: %w", err)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	return &Scheduler{
		interval:     cfg.Interval,
		openMin:      open.Hour()*60 + open.Minute(),
		closeMin:     end.Hour()*60 + end.Minute(),
		reportHour:   cfg.ReportHour,
		loc:          loc,
		fetchTimeout: cfg.FetchTimeout,
		workers:      cfg.Workers,
		deps:         deps,
		now:          time.Now,
		summarySent:  make(map[string]string),
	}, nil
}

// Run ticks until ctx is canceled. The first tick fires immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	s.deps.Logger.Info("scheduler started",
		xlogger.Duration("interval", s.interval),
		xlogger.Int("report_hour", s.reportHour))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.runTick(ctx)
		select {
		case <-ctx.Done():
			s.deps.Logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// snapshot is one tick's view of the providers. Eventually consistent with
// upstream; no ordering guarantee between price staleness and news freshness.
type snapshot struct {
	prices map[models.Ticker]models.PriceQuote
	fresh  map[models.Ticker][]models.NewsItem
}

func (s *Scheduler) runTick(ctx context.Context) {
	s.deps.Metrics.RecordTick()
	now := s.now().In(s.loc)

	users, err := s.deps.Portfolios.Load()
	if err != nil {
		// Degrade, don't crash: this tick has no users, the next one retries.
		s.deps.Logger.Error("portfolio load failed", xlogger.Error(err))
		s.deps.Metrics.RecordFetchError("portfolio")
		s.deps.Health.TickFailed()
		return
	}
	if len(users) == 0 {
		s.deps.Health.TickOK(now)
		return
	}

	inWindow := s.inMarketWindow(now)
	reportDue := now.Hour() == s.reportHour
	if !inWindow && !reportDue {
		s.deps.Health.TickOK(now)
		return
	}

	// News is only fetched (and dedup state only consumed) when a fresh
	// update could actually be delivered.
	snap := s.fetch(ctx, distinctTickers(users), inWindow)

	attempted, delivered := 0, 0
	for _, u := range users {
		if ctx.Err() != nil {
			return
		}
		if inWindow {
			if text := s.deps.Builder.Build(u, snap.prices, freshFor(u, snap.fresh)); text != "" {
				attempted++
				if s.deliver(ctx, u.ChatID, text) {
					delivered++
				}
			}
		}
		if reportDue && !s.summarySentToday(u.ChatID, now) {
			if text := s.deps.Builder.BuildSummary(u, snap.prices); text != "" {
				attempted++
				if s.deliver(ctx, u.ChatID, text) {
					delivered++
					s.markSummarySent(u.ChatID, now)
				}
			}
		}
	}

	if attempted > 0 && delivered == 0 {
		s.deps.Health.TickFailed()
		return
	}
	s.deps.Health.TickOK(now)
}

// fetch fans out over tickers with a bounded worker pool. Each unit gets its
// own deadline so one stuck provider cannot stall the tick.
func (s *Scheduler) fetch(ctx context.Context, tickers []models.Ticker, withNews bool) snapshot {
	snap := snapshot{
		prices: make(map[models.Ticker]models.PriceQuote, len(tickers)),
		fresh:  make(map[models.Ticker][]models.NewsItem),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for _, t := range tickers {
		wg.Add(1)
		go func(t models.Ticker) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			cctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			quote := s.deps.Market.GetPrice(cctx, t)

			var fresh []models.NewsItem
			if withNews {
				raw := s.deps.News.GetNews(cctx, t)
				fresh = s.deps.Seen.FilterNew(ctx, t, raw)
				if s.deps.Scorer != nil {
					for i := range fresh {
						fresh[i].Sentiment = s.deps.Scorer.Score(fresh[i].Title)
					}
				}
			}

			mu.Lock()
			snap.prices[t] = quote
			if len(fresh) > 0 {
				snap.fresh[t] = fresh
			}
			mu.Unlock()
		}(t)
	}
	wg.Wait()
	return snap
}

// deliver makes exactly one attempt. A failure is logged and isolated to
// this user; the tick moves on.
func (s *Scheduler) deliver(ctx context.Context, chatID, text string) bool {
	cctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	if err := s.deps.Messenger.Send(cctx, chatID, text); err != nil {
		s.deps.Logger.Error("delivery failed",
			xlogger.String("chat_id", chatID), xlogger.Error(err))
		s.deps.Metrics.RecordDelivery(chatID, false)
		return false
	}
	s.deps.Metrics.RecordDelivery(chatID, true)
	return true
}

func (s *Scheduler) inMarketWindow(now time.Time) bool {
	cur := now.Hour()*60 + now.Minute()
	return cur >= s.openMin && cur < s.closeMin
}

// summarySentToday implements the once-per-day guard on the hour-only report
// check. The flag resets implicitly at local midnight: the stored date no
// longer matches.
func (s *Scheduler) summarySentToday(chatID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarySent[chatID] == now.Format("2006-01-02")
}

func (s *Scheduler) markSummarySent(chatID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summarySent[chatID] = now.Format("2006-01-02")
}

// distinctTickers unions all portfolios, first occurrence order preserved,
// so each ticker is fetched once per tick no matter how many users hold it.
func distinctTickers(users []models.User) []models.Ticker {
	seen := make(map[models.Ticker]struct{})
	var out []models.Ticker
	for _, u := range users {
		for _, t := range u.Portfolio {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// freshFor flattens this tick's fresh items for one user, portfolio order.
func freshFor(u models.User, fresh map[models.Ticker][]models.NewsItem) []models.NewsItem {
	var out []models.NewsItem
	for _, t := range u.DistinctTickers() {
		out = append(out, fresh[t]...)
	}
	return out
}
