package metrics

import (
	"github.com/shopspring/decimal"

	"budgeteer/internal/core"
)

// SumByTag reduces a transaction sequence into a signed sum per category
// tag. The sum keeps the raw signs as stored; callers wanting a spend
// magnitude use SpentByCategory instead.
func SumByTag(txs []core.Transaction) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		sums[tx.Tag] = sums[tx.Tag].Add(tx.Amount)
	}
	return sums
}

// SpentByCategory reports the spend magnitude per category: abs(sum) for
// every tag except the reserved Income tag. This is the view compared
// against non-negative budget ceilings.
func SpentByCategory(txs []core.Transaction) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for tag, sum := range SumByTag(txs) {
		if tag == core.IncomeTag {
			continue
		}
		spent[tag] = sum.Abs()
	}
	return spent
}

// MergeBudgets refreshes the stored budget list against the filtered
// transaction set: a category observed in the feed but absent from the
// store is created lazily with a zero ceiling, and every entry's
// AmountSpent cache is recomputed from the feed (signed sum, as the client
// stores it). Stored entries for categories no longer present keep their
// ceiling with a zero spend. The Income tag never gets a budget row.
func MergeBudgets(stored []core.Budget, txs []core.Transaction) []core.Budget {
	sums := SumByTag(txs)

	ceilings := make(map[string]decimal.Decimal, len(stored))
	for _, b := range stored {
		ceilings[b.Category] = b.Budgeted
	}

	var out []core.Budget
	seen := make(map[string]bool, len(stored))
	for _, b := range stored {
		if b.Category == core.IncomeTag || seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		out = append(out, core.Budget{
			Category:    b.Category,
			Budgeted:    b.Budgeted,
			AmountSpent: core.Round2(sums[b.Category]),
		})
	}
	for _, tx := range txs {
		if tx.Tag == core.IncomeTag || seen[tx.Tag] {
			continue
		}
		seen[tx.Tag] = true
		out = append(out, core.Budget{
			Category:    tx.Tag,
			Budgeted:    ceilings[tx.Tag],
			AmountSpent: core.Round2(sums[tx.Tag]),
		})
	}
	return out
}
