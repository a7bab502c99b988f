package repository

import (
	"context"
	"sync"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
)

// seenSet is an ordered set of titles with FIFO eviction.
type seenSet struct {
	titles map[string]struct{}
	order  []string
}

// MemorySeen is the in-process SeenStore. Titles are kept per ticker in a
// capped FIFO set so memory stays bounded for long-lived processes.
type MemorySeen struct {
	mu        sync.Mutex
	byTicker  map[models.Ticker]*seenSet
	maxTitles int // per ticker; 0 means unbounded
}

// NewMemorySeen creates an in-memory SeenStore keeping at most maxTitles
// recent titles per ticker (0 = unbounded).
func NewMemorySeen(maxTitles int) drepo.SeenStore {
	return &MemorySeen{
		byTicker:  make(map[models.Ticker]*seenSet),
		maxTitles: maxTitles,
	}
}

func (m *MemorySeen) Seen(_ context.Context, ticker models.Ticker, title string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byTicker[ticker]
	if !ok {
		return false
	}
	_, ok = s.titles[title]
	return ok
}

func (m *MemorySeen) Mark(_ context.Context, ticker models.Ticker, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mark(ticker, title)
}

// FilterNew performs check-and-mark under a single lock, so concurrent ticker
// fetches never both claim the same title.
func (m *MemorySeen) FilterNew(_ context.Context, ticker models.Ticker, items []models.NewsItem) []models.NewsItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := make([]models.NewsItem, 0, len(items))
	for _, it := range items {
		if s, ok := m.byTicker[ticker]; ok {
			if _, dup := s.titles[it.Title]; dup {
				continue
			}
		}
		m.mark(ticker, it.Title)
		fresh = append(fresh, it)
	}
	return fresh
}

// mark inserts title for ticker, evicting the oldest title when over the cap.
// Caller must hold m.mu.
func (m *MemorySeen) mark(ticker models.Ticker, title string) {
	s, ok := m.byTicker[ticker]
	if !ok {
		s = &seenSet{titles: make(map[string]struct{})}
		m.byTicker[ticker] = s
	}
	if _, dup := s.titles[title]; dup {
		return
	}
	s.titles[title] = struct{}{}
	s.order = append(s.order, title)

	if m.maxTitles > 0 && len(s.order) > m.maxTitles {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.titles, oldest)
	}
}
