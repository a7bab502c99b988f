package repository

import (
	"os"
	"path/filepath"
	"testing"

	"StockSentry/internal/domain/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolios.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadParsesRows(t *testing.T) {
	path := writeCSV(t, "chat_id,tickers\n111,AAA;BBB\n222,CCC\n")
	users, err := NewCSVPortfolio(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ChatID != "111" || len(users[0].Portfolio) != 2 {
		t.Fatalf("unexpected first user: %+v", users[0])
	}
	if users[0].Portfolio[0] != models.Ticker("AAA") || users[0].Portfolio[1] != models.Ticker("BBB") {
		t.Fatalf("unexpected portfolio order: %v", users[0].Portfolio)
	}
}

func TestLoadExtraColumnsAreTickers(t *testing.T) {
	path := writeCSV(t, "111,AAA,BBB;CCC\n")
	users, err := NewCSVPortfolio(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 1 || len(users[0].Portfolio) != 3 {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, "111,AAA\n,BBB\n222\n333,CCC\n")
	users, err := NewCSVPortfolio(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected rows without chat id or tickers skipped, got %+v", users)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewCSVPortfolio(filepath.Join(t.TempDir(), "absent.csv")).Load()
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
