package models

// Ticker identifies a tradable instrument, typically an exchange-qualified
// symbol such as "RELIANCE.NS".
type Ticker string

// User maps a Telegram chat to the tickers it watches. Portfolio order is
// user-visible: digest sections follow it.
type User struct {
	ChatID    string
	Portfolio []Ticker
}

// DistinctTickers returns the portfolio with duplicates removed, first
// occurrence order preserved.
func (u User) DistinctTickers() []Ticker {
	seen := make(map[Ticker]struct{}, len(u.Portfolio))
	out := make([]Ticker, 0, len(u.Portfolio))
	for _, t := range u.Portfolio {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
