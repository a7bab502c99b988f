package models

import "time"

// Sentiment labels a news headline.
type Sentiment string

const (
	SentimentBullish Sentiment = "Bullish"
	SentimentNeutral Sentiment = "Neutral"
	SentimentBearish Sentiment = "Bearish"
)

// NewsItem is one article returned by the news provider. Dedup identity is
// the Title text per ticker; two distinct articles with the same headline are
// indistinguishable.
type NewsItem struct {
	Ticker      Ticker
	Title       string
	URL         string
	Sentiment   Sentiment // empty when scoring is disabled
	PublishedAt time.Time // zero when the provider omits it
}
