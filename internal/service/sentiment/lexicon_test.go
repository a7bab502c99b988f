package sentiment

import (
	"testing"

	"StockSentry/internal/domain/models"
)

func TestScoreBullish(t *testing.T) {
	l := New()
	if got := l.Score("Shares surge after company beats estimates"); got != models.SentimentBullish {
		t.Fatalf("got %v", got)
	}
}

func TestScoreBearish(t *testing.T) {
	l := New()
	if got := l.Score("Stock plunges as profit misses, layoffs announced"); got != models.SentimentBearish {
		t.Fatalf("got %v", got)
	}
}

func TestScoreNeutralNoMatches(t *testing.T) {
	l := New()
	if got := l.Score("Company announces quarterly results date"); got != models.SentimentNeutral {
		t.Fatalf("got %v", got)
	}
}

func TestScoreNeutralBalanced(t *testing.T) {
	// gain (+0.5) and fall (-0.5) average to zero, inside the dead band.
	l := New()
	if got := l.Score("Shares gain then fall in volatile session"); got != models.SentimentNeutral {
		t.Fatalf("got %v", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	l := New()
	text := "Record profit drives rally"
	first := l.Score(text)
	for i := 0; i < 10; i++ {
		if got := l.Score(text); got != first {
			t.Fatalf("score not deterministic: %v vs %v", got, first)
		}
	}
}
