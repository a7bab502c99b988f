package usecase

import (
	"fmt"
	"strings"

	"StockSentry/internal/domain/models"
	"StockSentry/pkg/util"
)

// priceUnavailable marks a ticker whose price fetch failed.
const priceUnavailable = "N/A"

// DigestBuilder composes the MarkdownV2 notification text for one user.
// It is the single place where user-supplied text gets escaped, so escaping
// happens exactly once.
type DigestBuilder struct{}

// NewDigestBuilder creates a digest builder.
func NewDigestBuilder() *DigestBuilder {
	return &DigestBuilder{}
}

// Build formats the fresh-update digest: one section per distinct portfolio
// ticker, in portfolio order, with price and fresh headlines. Returns "" when
// there is no fresh news anywhere, so the caller can suppress delivery.
func (b *DigestBuilder) Build(user models.User, prices map[models.Ticker]models.PriceQuote, fresh []models.NewsItem) string {
	if len(fresh) == 0 {
		return ""
	}

	byTicker := make(map[models.Ticker][]models.NewsItem, len(fresh))
	for _, it := range fresh {
		byTicker[it.Ticker] = append(byTicker[it.Ticker], it)
	}

	var sb strings.Builder
	sb.WriteString("*Portfolio update*\n")
	for _, t := range user.DistinctTickers() {
		b.writeSection(&sb, t, prices[t], byTicker[t])
	}
	return sb.String()
}

// BuildSummary formats the end-of-day digest: prices for every portfolio
// ticker, no news. Never empty for a non-empty portfolio.
func (b *DigestBuilder) BuildSummary(user models.User, prices map[models.Ticker]models.PriceQuote) string {
	tickers := user.DistinctTickers()
	if len(tickers) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("*End of day summary*\n")
	for _, t := range tickers {
		fmt.Fprintf(&sb, "%s — %s\n", util.EscapeMarkdownV2(string(t)), formatPrice(prices[t]))
	}
	return sb.String()
}

func (b *DigestBuilder) writeSection(sb *strings.Builder, t models.Ticker, quote models.PriceQuote, items []models.NewsItem) {
	fmt.Fprintf(sb, "\n*%s* — %s\n", util.EscapeMarkdownV2(string(t)), formatPrice(quote))

	if len(items) == 0 {
		sb.WriteString("no fresh news\n")
		return
	}
	for _, it := range items {
		sb.WriteString("• ")
		if it.Sentiment != "" {
			fmt.Fprintf(sb, "%s: ", it.Sentiment)
		}
		fmt.Fprintf(sb, "[%s](%s)\n", util.EscapeMarkdownV2(it.Title), util.EscapeLinkURL(it.URL))
	}
}

// formatPrice renders a quote or the explicit unavailable marker. The marker
// contains no MarkdownV2 specials; decimal output only needs the dot escaped.
func formatPrice(q models.PriceQuote) string {
	if !q.Valid {
		return priceUnavailable
	}
	return util.EscapeMarkdownV2(q.Value.StringFixed(2))
}
