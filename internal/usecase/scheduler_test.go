package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
	internalrepo "StockSentry/internal/repository"
	xlogger "StockSentry/pkg/logger"

	"github.com/shopspring/decimal"
)

// --- fakes ---

type fakePortfolios struct {
	mu    sync.Mutex
	users []models.User
	err   error
}

func (f *fakePortfolios) Load() ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, f.err
}

func (f *fakePortfolios) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

type fakeMarket struct {
	mu     sync.Mutex
	prices map[models.Ticker]float64 // missing ticker = absent quote
}

func (f *fakeMarket) GetPrice(_ context.Context, t models.Ticker) models.PriceQuote {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.prices[t]; ok {
		return models.PriceQuote{Ticker: t, Value: decimal.NewFromFloat(v), Valid: true}
	}
	return models.PriceQuote{Ticker: t}
}

type fakeNews struct {
	mu     sync.Mutex
	titles map[models.Ticker][]string
}

func (f *fakeNews) GetNews(_ context.Context, t models.Ticker) []models.NewsItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]models.NewsItem, 0, len(f.titles[t]))
	for _, title := range f.titles[t] {
		items = append(items, models.NewsItem{Ticker: t, Title: title, URL: "https://example.com/n"})
	}
	return items
}

func (f *fakeNews) set(t models.Ticker, titles ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles[t] = titles
}

type sentMessage struct {
	chatID string
	text   string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[string]bool
}

func (f *fakeMessenger) Send(_ context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[chatID] {
		return fmt.Errorf("delivery refused for %s", chatID)
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (f *fakeMessenger) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeMessenger) setFail(chatID string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = make(map[string]bool)
	}
	f.fail[chatID] = fail
}

type nopMetrics struct{}

func (nopMetrics) RecordTick()                        {}
func (nopMetrics) RecordDelivery(string, bool)        {}
func (nopMetrics) RecordFetchError(string)            {}
func (nopMetrics) RecordLastPrice(string, float64)    {}
func (nopMetrics) RecordFetchLatency(string, float64) {}

type fakeHealth struct {
	mu       sync.Mutex
	okCount  int
	failures int
}

func (f *fakeHealth) TickOK(time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.okCount++
}

func (f *fakeHealth) TickFailed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures++
}

func (f *fakeHealth) Snapshot() drepo.HealthStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return drepo.HealthStatus{ConsecutiveFailures: f.failures}
}

type fakeScorer struct{}

func (fakeScorer) Score(string) models.Sentiment { return models.SentimentBullish }

// --- helpers ---

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestScheduler(t *testing.T, deps Deps, reportHour int, now time.Time) *Scheduler {
	t.Helper()
	if deps.Builder == nil {
		deps.Builder = NewDigestBuilder()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Health == nil {
		deps.Health = &fakeHealth{}
	}
	if deps.Logger == nil {
		deps.Logger = testLogger(t)
	}
	if deps.Seen == nil {
		deps.Seen = internalrepo.NewMemorySeen(0)
	}
	if deps.Market == nil {
		deps.Market = &fakeMarket{}
	}
	if deps.News == nil {
		deps.News = &fakeNews{titles: map[models.Ticker][]string{}}
	}
	if deps.Messenger == nil {
		deps.Messenger = &fakeMessenger{}
	}

	s, err := NewScheduler(Config{
		Interval:     time.Minute,
		MarketOpen:   "00:00",
		MarketClose:  "23:59",
		ReportHour:   reportHour,
		Timezone:     "UTC",
		FetchTimeout: time.Second,
		Workers:      2,
	}, deps)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	s.now = func() time.Time { return now }
	return s
}

var noon = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

// --- tests ---

func TestTickDeliversFreshNewsThenDedups(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA", "BBB"}}}
	news := &fakeNews{titles: map[models.Ticker][]string{"AAA": {"X"}, "BBB": {"Y"}}}
	msgr := &fakeMessenger{}

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		Market:     &fakeMarket{prices: map[models.Ticker]float64{"AAA": 1, "BBB": 2}},
		News:       news,
		Messenger:  msgr,
	}, -1, noon)

	s.runTick(ctx)
	sent := msgr.messages()
	if len(sent) != 1 {
		t.Fatalf("tick 1: expected one digest, got %d", len(sent))
	}
	if !strings.Contains(sent[0].text, "X") || !strings.Contains(sent[0].text, "Y") {
		t.Fatalf("tick 1 digest missing headlines:\n%s", sent[0].text)
	}

	// Tick 2: X repeats for AAA, Z is new for BBB.
	news.set("AAA", "X")
	news.set("BBB", "Z")
	s.runTick(ctx)

	sent = msgr.messages()
	if len(sent) != 2 {
		t.Fatalf("tick 2: expected second digest, got %d", len(sent))
	}
	second := sent[1].text
	if strings.Contains(second, "X") {
		t.Fatalf("tick 2 digest repeats a seen headline:\n%s", second)
	}
	if !strings.Contains(second, "Z") {
		t.Fatalf("tick 2 digest missing new headline:\n%s", second)
	}
	if !strings.Contains(second, "no fresh news") {
		t.Fatalf("AAA section must say no fresh news:\n%s", second)
	}
}

func TestTickAbsentPriceKeepsNews(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"CCC"}}}
	news := &fakeNews{titles: map[models.Ticker][]string{"CCC": {"still trading"}}}
	msgr := &fakeMessenger{}

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		Market:     &fakeMarket{}, // price fetch always fails
		News:       news,
		Messenger:  msgr,
	}, -1, noon)

	s.runTick(ctx)
	sent := msgr.messages()
	if len(sent) != 1 {
		t.Fatalf("expected one digest, got %d", len(sent))
	}
	if !strings.Contains(sent[0].text, "N/A") {
		t.Fatalf("absent price must render marker:\n%s", sent[0].text)
	}
	if !strings.Contains(sent[0].text, "still trading") {
		t.Fatalf("news must still be included:\n%s", sent[0].text)
	}
}

func TestTickPortfolioFailureThenRecovery(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}}}
	portfolios := &fakePortfolios{users: users, err: fmt.Errorf("csv unreadable")}
	news := &fakeNews{titles: map[models.Ticker][]string{"AAA": {"X"}}}
	msgr := &fakeMessenger{}
	health := &fakeHealth{}

	s := newTestScheduler(t, Deps{
		Portfolios: portfolios,
		News:       news,
		Messenger:  msgr,
		Health:     health,
	}, -1, noon)

	s.runTick(ctx)
	if len(msgr.messages()) != 0 {
		t.Fatalf("no deliveries expected while config is unreadable")
	}
	if health.failures != 1 {
		t.Fatalf("expected failed tick, got %d", health.failures)
	}

	portfolios.setErr(nil)
	s.runTick(ctx)
	sent := msgr.messages()
	if len(sent) != 1 || !strings.Contains(sent[0].text, "X") {
		t.Fatalf("recovery tick should deliver normally, got %v", sent)
	}
}

func TestTickSuppressesEmptyDigest(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}}}
	msgr := &fakeMessenger{}

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		Market:     &fakeMarket{prices: map[models.Ticker]float64{"AAA": 1}},
		Messenger:  msgr,
	}, -1, noon)

	s.runTick(ctx)
	s.runTick(ctx)
	if len(msgr.messages()) != 0 {
		t.Fatalf("no fresh news anywhere must mean no delivery")
	}
}

func TestTickOutsideWindowDoesNothing(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}}}
	news := &fakeNews{titles: map[models.Ticker][]string{"AAA": {"X"}}}
	msgr := &fakeMessenger{}

	// 23:59 is exactly the close minute, outside the half-open window.
	lateNight := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		News:       news,
		Messenger:  msgr,
	}, -1, lateNight)

	s.runTick(ctx)
	if len(msgr.messages()) != 0 {
		t.Fatalf("nothing should be delivered outside the market window")
	}
	// The seen store must be untouched: the headline is still fresh later.
	if s.deps.Seen.Seen(ctx, "AAA", "X") {
		t.Fatalf("dedup state consumed outside the window")
	}
}

func TestDeliveryFailureIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	users := []models.User{
		{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}},
		{ChatID: "U2", Portfolio: []models.Ticker{"AAA"}},
	}
	news := &fakeNews{titles: map[models.Ticker][]string{"AAA": {"X"}}}
	msgr := &fakeMessenger{}
	msgr.setFail("U1", true)

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		News:       news,
		Messenger:  msgr,
	}, -1, noon)

	s.runTick(ctx)
	sent := msgr.messages()
	if len(sent) != 1 || sent[0].chatID != "U2" {
		t.Fatalf("U1 failure must not block U2, got %v", sent)
	}
}

func TestSummarySentOncePerDay(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}}}
	msgr := &fakeMessenger{}

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		Market:     &fakeMarket{prices: map[models.Ticker]float64{"AAA": 42}},
		Messenger:  msgr,
	}, noon.Hour(), noon)

	// Several ticks within the report hour: exactly one summary.
	s.runTick(ctx)
	s.runTick(ctx)
	s.runTick(ctx)
	sent := msgr.messages()
	if len(sent) != 1 {
		t.Fatalf("expected exactly one summary this hour, got %d", len(sent))
	}
	if !strings.Contains(sent[0].text, "End of day summary") {
		t.Fatalf("unexpected summary text:\n%s", sent[0].text)
	}

	// Next day, same hour: the flag has reset.
	s.now = func() time.Time { return noon.Add(24 * time.Hour) }
	s.runTick(ctx)
	if len(msgr.messages()) != 2 {
		t.Fatalf("summary must fire again the next day")
	}
}

func TestSummaryRetriedAfterDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}}}
	msgr := &fakeMessenger{}
	msgr.setFail("U1", true)

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		Market:     &fakeMarket{prices: map[models.Ticker]float64{"AAA": 42}},
		Messenger:  msgr,
	}, noon.Hour(), noon)

	s.runTick(ctx)
	if len(msgr.messages()) != 0 {
		t.Fatalf("failed delivery recorded as sent")
	}

	// A failed summary is not marked sent, so the next tick retries.
	msgr.setFail("U1", false)
	s.runTick(ctx)
	if len(msgr.messages()) != 1 {
		t.Fatalf("summary should be retried after a failed attempt")
	}
}

func TestSentimentLabelsApplied(t *testing.T) {
	ctx := context.Background()
	users := []models.User{{ChatID: "U1", Portfolio: []models.Ticker{"AAA"}}}
	news := &fakeNews{titles: map[models.Ticker][]string{"AAA": {"X"}}}
	msgr := &fakeMessenger{}

	s := newTestScheduler(t, Deps{
		Portfolios: &fakePortfolios{users: users},
		News:       news,
		Messenger:  msgr,
		Scorer:     fakeScorer{},
	}, -1, noon)

	s.runTick(ctx)
	sent := msgr.messages()
	if len(sent) != 1 || !strings.Contains(sent[0].text, "Bullish") {
		t.Fatalf("expected sentiment label in digest, got %v", sent)
	}
}
