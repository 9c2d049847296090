package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgeteer/internal/amqp"
	"budgeteer/internal/core"
	"budgeteer/internal/store"
	"budgeteer/internal/store/memory"
)

type stubFeed struct {
	txs []core.Transaction
}

func (f stubFeed) Transactions() []core.Transaction {
	return f.txs
}

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	g.calls++
	return g.reply, g.err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedBudgets(t *testing.T, st *store.Store, budgets []core.Budget) {
	t.Helper()
	if err := st.SaveBudgets(context.Background(), budgets); err != nil {
		t.Fatalf("SaveBudgets() error = %v", err)
	}
}

func TestHandleRefreshRecomputesViews(t *testing.T) {
	ctx := context.Background()
	st := store.New(memory.New())
	seedBudgets(t, st, []core.Budget{{Category: "Food", Budgeted: dec("200")}})

	feed := stubFeed{txs: []core.Transaction{
		{ID: 1, Date: "11/1/2025", Tag: "Income", Name: "Paycheck", Amount: dec("3000")},
		{ID: 2, Date: "11/5/2025", Tag: "Food", Name: "Groceries", Amount: dec("-250")},
	}}
	w := NewRefreshWorker(feed, st, nil)

	msg := amqp.NewRefreshMessage(10, 2025, amqp.ReasonBudgetChanged)
	if err := w.HandleRefresh(ctx, msg); err != nil {
		t.Fatalf("HandleRefresh() error = %v", err)
	}

	budgets := st.Budgets(ctx)
	if len(budgets) != 1 {
		t.Fatalf("got %d budgets, want 1", len(budgets))
	}
	if got := budgets[0].AmountSpent.String(); got != "-250" {
		t.Errorf("AmountSpent = %s, want -250", got)
	}

	// Food is over its ceiling, so one suggestion should be persisted with
	// a padded proposed ceiling.
	suggestions := st.Suggestions(ctx)
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	s := suggestions[0]
	if s.Category != "Food" {
		t.Errorf("Category = %s, want Food", s.Category)
	}
	if s.ID == "" {
		t.Error("suggestion ID is empty")
	}
	if got := s.SuggestedBudget.String(); got != "275" {
		t.Errorf("SuggestedBudget = %s, want 275", got)
	}
	if s.Text == "" {
		t.Error("suggestion text is empty")
	}
}

func TestHandleRefreshRejectsBadMonth(t *testing.T) {
	w := NewRefreshWorker(stubFeed{}, store.New(memory.New()), nil)

	msg := amqp.NewRefreshMessage(12, 2025, amqp.ReasonPeriodicTick)
	if err := w.HandleRefresh(context.Background(), msg); err == nil {
		t.Fatal("expected error for out-of-range month")
	}
}

func TestRefreshSuggestionsUsesGenerator(t *testing.T) {
	ctx := context.Background()
	st := store.New(memory.New())
	seedBudgets(t, st, []core.Budget{{Category: "Food", Budgeted: dec("100")}})

	feed := stubFeed{txs: []core.Transaction{
		{ID: 1, Date: "11/5/2025", Tag: "Food", Name: "Groceries", Amount: dec("-150")},
	}}
	gen := &stubGenerator{reply: "Try meal prepping on Sundays."}
	w := NewRefreshWorker(feed, st, gen)

	if err := w.Recompute(ctx, 10, 2025); err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls)
	}
	suggestions := st.Suggestions(ctx)
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].Text != "Try meal prepping on Sundays." {
		t.Errorf("Text = %q", suggestions[0].Text)
	}
}

func TestRefreshSuggestionsFallsBackOnGeneratorError(t *testing.T) {
	ctx := context.Background()
	st := store.New(memory.New())
	seedBudgets(t, st, []core.Budget{{Category: "Food", Budgeted: dec("100")}})

	feed := stubFeed{txs: []core.Transaction{
		{ID: 1, Date: "11/5/2025", Tag: "Food", Name: "Groceries", Amount: dec("-150")},
	}}
	gen := &stubGenerator{err: errors.New("model offline")}
	w := NewRefreshWorker(feed, st, gen)

	if err := w.Recompute(ctx, 10, 2025); err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	suggestions := st.Suggestions(ctx)
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].Text == "" {
		t.Error("fallback text is empty")
	}
}

func TestRecomputeNoSuggestionsWhenUnderBudget(t *testing.T) {
	ctx := context.Background()
	st := store.New(memory.New())
	seedBudgets(t, st, []core.Budget{{Category: "Food", Budgeted: dec("500")}})

	feed := stubFeed{txs: []core.Transaction{
		{ID: 1, Date: "11/5/2025", Tag: "Food", Name: "Groceries", Amount: dec("-150")},
	}}
	w := NewRefreshWorker(feed, st, nil)

	if err := w.Recompute(ctx, 10, 2025); err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	if got := st.Suggestions(ctx); len(got) != 0 {
		t.Errorf("got %d suggestions, want 0", len(got))
	}
}
