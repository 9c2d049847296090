package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"budgeteer/internal/core"
)

// Score bounds shared with the client's gauge rendering.
const (
	MinScore = 300
	MaxScore = 850
)

// essentialCategories must be budgeted and funded for a healthy score;
// flexibleCategories get a graduated penalty when exceeded.
var (
	essentialCategories = []string{"Rent/Utilities", "Debt Payment"}
	flexibleCategories  = []string{"Food", "Subscription", "Transportation"}
)

// Summary is the full derived-metrics contract handed to any presentation
// or explanation collaborator. It is a projection, never stored as ground
// truth.
type Summary struct {
	NetSavings           decimal.Decimal `json:"netSavings"`
	CategoriesOverBudget int             `json:"categoriesOverBudget"`
	BudgeteerScore       int             `json:"budgeteerScore"`
	NetWorth             decimal.Decimal `json:"netWorth"`
	Budgets              []core.Budget   `json:"budgets"`
}

// NetSavings sums the filtered transactions with tag-driven signs: income
// adds its amount, every other category subtracts its magnitude regardless
// of the stored sign. Rounded to two places.
func NetSavings(txs []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.IsIncome() {
			total = total.Add(tx.Amount)
		} else {
			total = total.Sub(tx.Amount.Abs())
		}
	}
	return core.Round2(total)
}

// overBudget reports whether a single budget entry is exceeded: strict
// inequality, spend taken as magnitude. A zero ceiling is a hard ceiling,
// so any spend on an unbudgeted category counts. That reads like a product
// defect but it is the observed contract and is preserved as-is.
func overBudget(b core.Budget) bool {
	return b.AmountSpent.Abs().GreaterThan(b.Budgeted)
}

// CategoriesOverBudget counts the entries (Income excluded by
// construction) whose spend magnitude strictly exceeds the ceiling.
func CategoriesOverBudget(budgets []core.Budget) int {
	n := 0
	for _, b := range budgets {
		if b.Category == core.IncomeTag {
			continue
		}
		if overBudget(b) {
			n++
		}
	}
	return n
}

// BudgeteerScore computes the bounded health score from net savings and the
// merged budget list.
//
// Two paths: when every budget is respected and net savings is positive,
// a compliance bonus replaces the weighted formula entirely; otherwise the
// score starts from a savings baseline and applies essential-category and
// graduated overspend adjustments. The dual-path shape changes the output
// for the all-budgets-met case and is kept deliberately.
func BudgeteerScore(netSavings decimal.Decimal, budgets []core.Budget) int {
	ns, _ := netSavings.Float64()

	if CategoriesOverBudget(budgets) == 0 && netSavings.IsPositive() {
		bonus := math.Floor(800 + ns/1000*50)
		if bonus > MaxScore {
			return MaxScore
		}
		return int(bonus)
	}

	// Savings baseline: net savings normalized to [-1, 1] with impact
	// capped at ±$5000, mapped onto the score range.
	ratio := math.Max(-1, math.Min(ns/5000, 1))
	score := MinScore + ((ratio + 1) / 2) * (MaxScore - MinScore)

	byCategory := make(map[string]core.Budget, len(budgets))
	for _, b := range budgets {
		byCategory[b.Category] = b
	}

	for _, cat := range essentialCategories {
		b, ok := byCategory[cat]
		switch {
		case !ok || b.Budgeted.IsZero():
			score -= 50
		case overBudget(b):
			score -= 40
		default:
			score += 30
		}
	}

	for _, cat := range flexibleCategories {
		b, ok := byCategory[cat]
		if !ok || !overBudget(b) {
			continue
		}
		over := overshootRatio(b)
		switch {
		case over <= 0.2:
			score -= 5
		case over <= 1.0:
			score -= 10
		default:
			score -= 15
		}
	}

	return int(math.Floor(math.Max(MinScore, math.Min(score, MaxScore))))
}

// overshootRatio is (spent-budgeted)/budgeted with a denominator of 1
// substituted for a zero ceiling. Failing soft here keeps unbudgeted
// categories from ever crashing a percentage display.
func overshootRatio(b core.Budget) float64 {
	den := b.Budgeted
	if den.IsZero() {
		den = decimal.NewFromInt(1)
	}
	r, _ := b.AmountSpent.Abs().Sub(b.Budgeted).Div(den).Float64()
	return r
}

// PercentOfBudget returns spend magnitude as a percentage of the ceiling,
// substituting a denominator of 1 when the ceiling is zero.
func PercentOfBudget(b core.Budget) decimal.Decimal {
	den := b.Budgeted
	if den.IsZero() {
		den = decimal.NewFromInt(1)
	}
	return core.Round2(b.AmountSpent.Abs().Div(den).Mul(decimal.NewFromInt(100)))
}

// Compute derives the whole summary from one consistent snapshot: the
// period-filtered transactions, the stored budget list, and the asset
// ledger. Callers must not mix snapshots mid-computation; recomputing on
// every state change is the expected usage.
func Compute(txs []core.Transaction, stored []core.Budget, assets AssetGroups) Summary {
	budgets := MergeBudgets(stored, txs)
	ns := NetSavings(txs)
	return Summary{
		NetSavings:           ns,
		CategoriesOverBudget: CategoriesOverBudget(budgets),
		BudgeteerScore:       BudgeteerScore(ns, budgets),
		NetWorth:             NetWorth(assets),
		Budgets:              budgets,
	}
}
