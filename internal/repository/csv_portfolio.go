package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
)

// CSVPortfolio reads the user -> portfolio mapping from a CSV file. Each row
// is `chat_id,TICKER1;TICKER2;...`; extra columns are treated as additional
// tickers so both encodings work. The file is re-read on every Load so edits
// take effect on the next tick.
type CSVPortfolio struct {
	path string
}

// NewCSVPortfolio creates a CSV-backed PortfolioSource.
func NewCSVPortfolio(path string) drepo.PortfolioSource {
	return &CSVPortfolio{path: path}
}

// Load parses the file. An unreadable file returns an error; malformed rows
// are skipped rather than failing the whole load.
func (p *CSVPortfolio) Load() ([]models.User, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open portfolios: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // variable-length portfolios
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse portfolios: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 {
			continue
		}
		chatID := strings.TrimSpace(rec[0])
		if chatID == "" {
			continue
		}
		if i == 0 && strings.EqualFold(chatID, "chat_id") {
			continue // header row
		}

		var portfolio []models.Ticker
		for _, field := range rec[1:] {
			for _, sym := range strings.Split(field, ";") {
				sym = strings.TrimSpace(sym)
				if sym == "" {
					continue
				}
				portfolio = append(portfolio, models.Ticker(sym))
			}
		}
		if len(portfolio) == 0 {
			continue
		}
		users = append(users, models.User{ChatID: chatID, Portfolio: portfolio})
	}
	return users, nil
}
