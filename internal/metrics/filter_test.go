package metrics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgeteer/internal/core"
	"budgeteer/internal/metrics"
)

func tx(id int, date, tag string, amount float64) core.Transaction {
	return core.Transaction{ID: id, Date: date, Tag: tag, Name: tag, Amount: decimal.NewFromFloat(amount)}
}

func TestFilterMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "1/15/2025", "Food", -30),
		tx(2, "2/1/2025", "Food", -20),
		tx(3, "1/31/2025", core.IncomeTag, 2500),
		tx(4, "1/15/2024", "Food", -10),
		tx(5, "garbage", "Food", -99), // malformed date fails closed
	}

	got := metrics.FilterMonth(txs, 0, 2025) // January, client-style 0-11
	if len(got) != 2 {
		t.Fatalf("FilterMonth returned %d transactions, want 2", len(got))
	}
	// Input relative order is preserved; no re-sorting happens internally.
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("order not preserved: got IDs %d, %d", got[0].ID, got[1].ID)
	}
}

func TestFilterMonthEmpty(t *testing.T) {
	if got := metrics.FilterMonth(nil, 0, 2025); len(got) != 0 {
		t.Fatalf("empty input should yield empty output, got %d", len(got))
	}
}

func TestFilterRange(t *testing.T) {
	txs := []core.Transaction{
		tx(1, "1/1/2025", "Food", -30),
		tx(2, "1/15/2025", "Food", -20),
		tx(3, "1/31/2025", "Food", -10),
		tx(4, "bad-date", "Food", -5),
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	got := metrics.FilterRange(txs, start, end)
	// Half-open (start, end]: the start day itself is excluded, the end day
	// included, malformed dates dropped.
	if len(got) != 2 {
		t.Fatalf("FilterRange returned %d transactions, want 2", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("unexpected IDs %d, %d", got[0].ID, got[1].ID)
	}
}
