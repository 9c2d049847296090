package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

	lastPrompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.reply, g.err
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(t *testing.T, txs []core.Transaction, gen Generator) (*DashboardService, *store.Store) {
	t.Helper()
	st := store.New(memory.New())
	return NewDashboardService(stubFeed{txs: txs}, st, nil, gen), st
}

func TestOverviewComputesAndPersists(t *testing.T) {
	ctx := context.Background()
	txs := []core.Transaction{
		{ID: 1, Date: "11/1/2025", Tag: "Income", Name: "Paycheck", Amount: dec("3000")},
		{ID: 2, Date: "11/3/2025", Tag: "Food", Name: "Groceries", Amount: dec("-250")},
		{ID: 3, Date: "10/3/2025", Tag: "Food", Name: "Out of period", Amount: dec("-999")},
	}
	svc, st := newService(t, txs, nil)

	summary := svc.Overview(ctx, 10, 2025)

	assert.Equal(t, "2750", summary.NetSavings.String())
	require.Len(t, summary.Budgets, 1)
	assert.Equal(t, "Food", summary.Budgets[0].Category)
	assert.Equal(t, "-250", summary.Budgets[0].AmountSpent.String())

	// The merged budget list and net worth mirror are written back.
	persisted := st.Budgets(ctx)
	require.Len(t, persisted, 1)
	assert.Equal(t, "Food", persisted[0].Category)
	assert.True(t, st.NetWorthMirror(ctx).IsZero())
}

func TestOverviewWorksWithNoopStore(t *testing.T) {
	svc := NewDashboardService(stubFeed{}, store.New(store.Noop{}), nil, nil)

	summary := svc.Overview(context.Background(), 0, 2025)

	assert.True(t, summary.NetSavings.IsZero())
	assert.Equal(t, 0, summary.CategoriesOverBudget)
}

func TestTransactionsFiltersPeriod(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Date: "11/1/2025", Tag: "Food", Amount: dec("-10")},
		{ID: 2, Date: "12/1/2025", Tag: "Food", Amount: dec("-20")},
		{ID: 3, Date: "not a date", Tag: "Food", Amount: dec("-30")},
	}
	svc, _ := newService(t, txs, nil)

	got := svc.Transactions(context.Background(), 10, 2025)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestSetBudget(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t, nil, nil)

	require.NoError(t, svc.SetBudget(ctx, "Food", dec("400"), 10, 2025))

	budgets := st.Budgets(ctx)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Food", budgets[0].Category)
	assert.Equal(t, "400", budgets[0].Budgeted.String())

	// Updating an existing category replaces the ceiling instead of
	// appending a duplicate row.
	require.NoError(t, svc.SetBudget(ctx, "Food", dec("500"), 10, 2025))
	budgets = st.Budgets(ctx)
	require.Len(t, budgets, 1)
	assert.Equal(t, "500", budgets[0].Budgeted.String())
}

func TestSetBudgetRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, nil, nil)

	err := svc.SetBudget(ctx, "", dec("100"), 10, 2025)
	assert.ErrorIs(t, err, core.ErrEmptyCategory)

	err = svc.SetBudget(ctx, "Food", dec("-1"), 10, 2025)
	assert.ErrorIs(t, err, core.ErrNegativeBudget)
}

func TestAddAndRemoveAsset(t *testing.T) {
	ctx := context.Background()
	svc, st := newService(t, nil, nil)

	require.NoError(t, svc.AddAsset(ctx, core.Asset{Type: core.AssetAccount, Name: "Checking", Balance: dec("1200")}))
	require.NoError(t, svc.AddAsset(ctx, core.Asset{Type: core.AssetLoan, Name: "Car Loan", Balance: dec("6000")}))
	require.NoError(t, svc.AddAsset(ctx, core.Asset{Type: core.AssetInvestment, Name: "Index Fund", Balance: dec("5000")}))

	assert.Equal(t, "200", svc.NetWorth(ctx).String())
	assert.Equal(t, "200", st.NetWorthMirror(ctx).String())

	require.NoError(t, svc.RemoveAsset(ctx, core.AssetLoan, "Car Loan"))
	assert.Equal(t, "6200", svc.NetWorth(ctx).String())

	// Removing an absent name is a no-op.
	require.NoError(t, svc.RemoveAsset(ctx, core.AssetLoan, "Car Loan"))
	assert.Equal(t, "6200", svc.NetWorth(ctx).String())
}

func TestAddAssetRejectsInvalid(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	err := svc.AddAsset(context.Background(), core.Asset{Type: core.AssetAccount, Name: ""})
	assert.ErrorIs(t, err, core.ErrEmptyAssetName)

	err = svc.AddAsset(context.Background(), core.Asset{Type: "house", Name: "Home"})
	assert.ErrorIs(t, err, core.ErrInvalidAssetType)
}

func TestRemoveAssetRejectsUnknownType(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	err := svc.RemoveAsset(context.Background(), "house", "Home")
	assert.ErrorIs(t, err, core.ErrInvalidAssetType)
}

func TestChatPersistsBothSides(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{reply: "Spend less on takeout."}
	svc, st := newService(t, nil, gen)

	msg, err := svc.Chat(ctx, "How do I save more?")
	require.NoError(t, err)
	assert.Equal(t, "assistant", msg.Role)
	assert.Equal(t, "Spend less on takeout.", msg.Text)
	assert.NotEmpty(t, msg.ID)
	assert.Contains(t, gen.lastPrompt, "How do I save more?")

	history := st.ChatMessages(ctx)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestChatWithoutGenerator(t *testing.T) {
	svc, _ := newService(t, nil, nil)

	_, err := svc.Chat(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
}

func TestChatGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model offline")}
	svc, st := newService(t, nil, gen)

	_, err := svc.Chat(context.Background(), "hello")
	require.Error(t, err)

	// A failed exchange leaves no half-written history behind.
	assert.Empty(t, st.ChatMessages(context.Background()))
}

func TestExplainEmbedsSummary(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Date: "11/1/2025", Tag: "Income", Name: "Paycheck", Amount: dec("3000")},
	}
	gen := &stubGenerator{reply: "Your savings look healthy."}
	svc, _ := newService(t, txs, gen)

	reply, err := svc.Explain(context.Background(), "netSavings", 10, 2025)
	require.NoError(t, err)
	assert.Equal(t, "Your savings look healthy.", reply)
	assert.Contains(t, gen.lastPrompt, "netSavings")
	assert.Contains(t, gen.lastPrompt, "3000")
}
