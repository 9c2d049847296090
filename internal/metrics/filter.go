// Package metrics derives the dashboard's summary values from a snapshot of
// transactions, budgets, and assets. Every function here is pure: inputs are
// treated as immutable, outputs are deterministic, and no operation can
// fail over its documented domain.
package metrics

import (
	"time"

	"budgeteer/internal/core"
)

// FilterMonth returns the transactions whose date falls in the given month
// (0-11, matching the client's month indexing) and year. Transactions with
// unparsable dates are excluded. Relative order of the input is preserved;
// no sorting is performed.
func FilterMonth(txs []core.Transaction, month, year int) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		d, err := tx.ParsedDate()
		if err != nil {
			continue
		}
		if int(d.Month())-1 == month && d.Year() == year {
			out = append(out, tx)
		}
	}
	return out
}

// FilterRange returns the transactions whose date falls in (start, end].
// Used for year-to-date and rolling views. Unparsable dates are excluded;
// input order is preserved.
func FilterRange(txs []core.Transaction, start, end time.Time) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		d, err := tx.ParsedDate()
		if err != nil {
			continue
		}
		if d.After(start) && !d.After(end) {
			out = append(out, tx)
		}
	}
	return out
}
