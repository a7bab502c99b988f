package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"StockSentry/internal/domain/models"
)

func newsItems(ticker models.Ticker, titles ...string) []models.NewsItem {
	items := make([]models.NewsItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, models.NewsItem{Ticker: ticker, Title: title, URL: "https://example.com"})
	}
	return items
}

func TestFilterNewIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySeen(0)

	first := s.FilterNew(ctx, "AAA", newsItems("AAA", "X"))
	if len(first) != 1 || first[0].Title != "X" {
		t.Fatalf("expected X fresh, got %v", first)
	}

	for i := 0; i < 5; i++ {
		if again := s.FilterNew(ctx, "AAA", newsItems("AAA", "X")); len(again) != 0 {
			t.Fatalf("tick %d: X returned again: %v", i, again)
		}
	}
}

func TestFilterNewPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySeen(0)
	s.Mark(ctx, "AAA", "B")

	fresh := s.FilterNew(ctx, "AAA", newsItems("AAA", "A", "B", "C"))
	if len(fresh) != 2 || fresh[0].Title != "A" || fresh[1].Title != "C" {
		t.Fatalf("unexpected order: %v", fresh)
	}
}

func TestPerTickerIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySeen(0)

	s.Mark(ctx, "AAA", "S")
	if s.Seen(ctx, "BBB", "S") {
		t.Fatalf("title seen for AAA must not be seen for BBB")
	}
	fresh := s.FilterNew(ctx, "BBB", newsItems("BBB", "S"))
	if len(fresh) != 1 {
		t.Fatalf("expected S fresh for BBB")
	}
}

func TestMarkIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySeen(2).(*MemorySeen)

	s.Mark(ctx, "AAA", "X")
	s.Mark(ctx, "AAA", "X")
	s.Mark(ctx, "AAA", "X")
	if n := len(s.byTicker["AAA"].order); n != 1 {
		t.Fatalf("duplicate mark grew the set: %d", n)
	}
}

func TestCapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySeen(2)

	s.Mark(ctx, "AAA", "one")
	s.Mark(ctx, "AAA", "two")
	s.Mark(ctx, "AAA", "three")

	if s.Seen(ctx, "AAA", "one") {
		t.Fatalf("oldest title should have been evicted")
	}
	if !s.Seen(ctx, "AAA", "two") || !s.Seen(ctx, "AAA", "three") {
		t.Fatalf("recent titles should survive")
	}
}

func TestFilterNewConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySeen(0)

	const goroutines = 16
	var wg sync.WaitGroup
	results := make([][]models.NewsItem, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.FilterNew(ctx, "AAA", newsItems("AAA", "X", fmt.Sprintf("unique-%d", i)))
		}(i)
	}
	wg.Wait()

	claimed := 0
	for _, r := range results {
		for _, it := range r {
			if it.Title == "X" {
				claimed++
			}
		}
	}
	if claimed != 1 {
		t.Fatalf("title X claimed %d times, want exactly 1", claimed)
	}
}
