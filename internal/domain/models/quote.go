package models

import "github.com/shopspring/decimal"

// PriceQuote is the latest known price for a ticker. Valid is false when the
// provider failed or the ticker is unknown; the digest renders that as "N/A".
type PriceQuote struct {
	Ticker Ticker
	Value  decimal.Decimal
	Valid  bool
}
