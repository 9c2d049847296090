// Package worker recomputes the dashboard metrics in the background when a
// refresh event arrives or the periodic tick fires.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgeteer/internal/amqp"
	"budgeteer/internal/assistant"
	"budgeteer/internal/core"
	"budgeteer/internal/metrics"
	"budgeteer/internal/services"
	"budgeteer/internal/store"
)

// RefreshWorker consumes refresh messages, recomputes the Summary from the
// current snapshot, and refreshes the persisted views (budget caches, net
// worth mirror, suggestion responses). Each run reads a complete snapshot;
// the last run to write wins.
type RefreshWorker struct {
	feed      services.TransactionSource
	store     *store.Store
	generator services.Generator
}

func NewRefreshWorker(feed services.TransactionSource, st *store.Store, generator services.Generator) *RefreshWorker {
	return &RefreshWorker{
		feed:      feed,
		store:     st,
		generator: generator,
	}
}

// HandleRefresh processes a single refresh message from AMQP.
func (w *RefreshWorker) HandleRefresh(ctx context.Context, msg *amqp.RefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh message",
		"month", msg.Month,
		"year", msg.Year,
		"reason", msg.Reason)

	if msg.Month < 0 || msg.Month > 11 {
		return fmt.Errorf("month out of range: %d", msg.Month)
	}

	return w.Recompute(ctx, msg.Month, msg.Year)
}

// RecomputeCurrent refreshes the views for the current calendar month. Used
// by the periodic tick.
func (w *RefreshWorker) RecomputeCurrent(ctx context.Context) error {
	now := time.Now()
	return w.Recompute(ctx, int(now.Month())-1, now.Year())
}

// Recompute derives the Summary for one month (0-11) and year and writes
// the persisted views back.
func (w *RefreshWorker) Recompute(ctx context.Context, month, year int) error {
	txs := w.feed.Transactions()
	stored := w.store.Budgets(ctx)
	assets := w.store.Assets(ctx)

	filtered := metrics.FilterMonth(txs, month, year)
	summary := metrics.Compute(filtered, stored, assets)

	if err := w.store.SaveBudgets(ctx, summary.Budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	if err := w.store.SaveNetWorthMirror(ctx, summary.NetWorth); err != nil {
		return fmt.Errorf("save net worth mirror: %w", err)
	}

	w.refreshSuggestions(ctx, summary)

	slog.InfoContext(ctx, "Refresh complete",
		"month", month,
		"year", year,
		"net_savings", summary.NetSavings.String(),
		"categories_over_budget", summary.CategoriesOverBudget,
		"score", summary.BudgeteerScore)

	return nil
}

// refreshSuggestions regenerates the persisted suggestion responses for
// every category currently over its ceiling. The assistant is optional; a
// templated fallback keeps the dashboard populated without it, and a
// generation failure for one category never blocks the rest.
func (w *RefreshWorker) refreshSuggestions(ctx context.Context, summary metrics.Summary) {
	var suggestions []store.Suggestion
	for _, b := range summary.Budgets {
		if !b.AmountSpent.Abs().GreaterThan(b.Budgeted) {
			continue
		}

		spent := b.AmountSpent.Abs()
		suggested := core.Round2(spent.Mul(suggestedHeadroom))

		text, err := w.suggestionText(ctx, b)
		if err != nil {
			slog.WarnContext(ctx, "Failed to generate suggestion, using fallback",
				"category", b.Category, "error", err)
			text = fallbackSuggestion(b)
		}

		suggestions = append(suggestions, store.Suggestion{
			ID:              uuid.NewString(),
			Text:            text,
			Category:        b.Category,
			CurrentBudget:   b.Budgeted,
			SuggestedBudget: suggested,
		})
	}

	if err := w.store.SaveSuggestions(ctx, suggestions); err != nil {
		slog.ErrorContext(ctx, "Failed to persist suggestions", "error", err)
	}
}

func (w *RefreshWorker) suggestionText(ctx context.Context, b core.Budget) (string, error) {
	if w.generator == nil {
		return fallbackSuggestion(b), nil
	}
	prompt := assistant.BuildSuggestionPrompt(b.Category, b.Budgeted.String(), b.AmountSpent.Abs().String())
	return w.generator.Generate(ctx, prompt)
}

func fallbackSuggestion(b core.Budget) string {
	return fmt.Sprintf("You spent %s on %s against a budget of %s. Consider raising the ceiling or trimming this category next month.",
		b.AmountSpent.Abs().String(), b.Category, b.Budgeted.String())
}

// suggestedHeadroom pads the observed spend by 10% when proposing a new
// ceiling.
var suggestedHeadroom = decimal.RequireFromString("1.1")
