// Package services orchestrates the metrics engine, the persistence ports,
// the refresh events, and the assistant collaborator.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgeteer/internal/amqp"
	"budgeteer/internal/assistant"
	"budgeteer/internal/core"
	"budgeteer/internal/metrics"
	"budgeteer/internal/store"
)

var ErrAssistantUnavailable = errors.New("assistant not configured")

// TransactionSource supplies the read-only transaction feed.
type TransactionSource interface {
	Transactions() []core.Transaction
}

// Generator produces text from a prompt; satisfied by assistant.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DashboardService computes derived metrics from a consistent snapshot and
// applies user edits to budgets and assets. Persistence writes and event
// publishes are fire-and-forget: a failing collaborator is logged, never
// fatal to the request.
type DashboardService struct {
	feed      TransactionSource
	store     *store.Store
	events    *amqp.Client
	generator Generator
}

func NewDashboardService(feed TransactionSource, st *store.Store, events *amqp.Client, generator Generator) *DashboardService {
	return &DashboardService{
		feed:      feed,
		store:     st,
		events:    events,
		generator: generator,
	}
}

// Overview derives the full summary for one month (0-11) and year from the
// current snapshot. The merged budget list (with refreshed spend caches)
// and the net-worth mirror are written back for the next session; both
// writes are best-effort.
func (s *DashboardService) Overview(ctx context.Context, month, year int) metrics.Summary {
	// Read the complete snapshot up front so a concurrent edit can never
	// mix two states mid-computation.
	txs := s.feed.Transactions()
	stored := s.store.Budgets(ctx)
	assets := s.store.Assets(ctx)

	filtered := metrics.FilterMonth(txs, month, year)
	summary := metrics.Compute(filtered, stored, assets)

	if err := s.store.SaveBudgets(ctx, summary.Budgets); err != nil {
		slog.ErrorContext(ctx, "Failed to persist refreshed budgets", "error", err)
	}
	if err := s.store.SaveNetWorthMirror(ctx, summary.NetWorth); err != nil {
		slog.ErrorContext(ctx, "Failed to persist net worth mirror", "error", err)
	}

	return summary
}

// Transactions returns the feed filtered to one month (0-11) and year.
func (s *DashboardService) Transactions(ctx context.Context, month, year int) []core.Transaction {
	return metrics.FilterMonth(s.feed.Transactions(), month, year)
}

// SetBudget updates (or lazily creates) the ceiling for one category and
// publishes a refresh event for the given period.
func (s *DashboardService) SetBudget(ctx context.Context, category string, ceiling decimal.Decimal, month, year int) error {
	b := core.Budget{Category: category, Budgeted: ceiling}
	if err := b.Validate(); err != nil {
		return err
	}

	budgets := s.store.Budgets(ctx)
	updated := false
	for i := range budgets {
		if budgets[i].Category == category {
			budgets[i].Budgeted = ceiling
			updated = true
			break
		}
	}
	if !updated {
		budgets = append(budgets, b)
	}

	if err := s.store.SaveBudgets(ctx, budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}

	s.publishRefresh(ctx, month, year, amqp.ReasonBudgetChanged)
	return nil
}

// AddAsset appends one asset to its type's collection.
func (s *DashboardService) AddAsset(ctx context.Context, asset core.Asset) error {
	if err := asset.Validate(); err != nil {
		return err
	}

	groups := s.store.Assets(ctx)
	switch asset.Type {
	case core.AssetAccount:
		groups.Accounts = append(groups.Accounts, asset)
	case core.AssetLoan:
		groups.Loans = append(groups.Loans, asset)
	case core.AssetInvestment:
		groups.Investments = append(groups.Investments, asset)
	}

	if err := s.store.SaveAssets(ctx, groups); err != nil {
		return fmt.Errorf("save assets: %w", err)
	}

	s.refreshNetWorth(ctx, groups)
	return nil
}

// RemoveAsset deletes the named asset from its type's collection. Removing
// a name that is not present is a no-op, matching the client behavior.
func (s *DashboardService) RemoveAsset(ctx context.Context, assetType core.AssetType, name string) error {
	if !assetType.Valid() {
		return core.ErrInvalidAssetType
	}

	groups := s.store.Assets(ctx)
	switch assetType {
	case core.AssetAccount:
		groups.Accounts = removeByName(groups.Accounts, name)
	case core.AssetLoan:
		groups.Loans = removeByName(groups.Loans, name)
	case core.AssetInvestment:
		groups.Investments = removeByName(groups.Investments, name)
	}

	if err := s.store.SaveAssets(ctx, groups); err != nil {
		return fmt.Errorf("save assets: %w", err)
	}

	s.refreshNetWorth(ctx, groups)
	return nil
}

// NetWorth computes net worth from the current asset ledger.
func (s *DashboardService) NetWorth(ctx context.Context) decimal.Decimal {
	return metrics.NetWorth(s.store.Assets(ctx))
}

// Assets returns the current asset ledger snapshot.
func (s *DashboardService) Assets(ctx context.Context) metrics.AssetGroups {
	return s.store.Assets(ctx)
}

// Chat relays one user message to the assistant and persists both sides of
// the exchange under the chat history key.
func (s *DashboardService) Chat(ctx context.Context, message string) (store.ChatMessage, error) {
	if s.generator == nil {
		return store.ChatMessage{}, ErrAssistantUnavailable
	}

	reply, err := s.generator.Generate(ctx, assistant.BuildChatPrompt(message))
	if err != nil {
		return store.ChatMessage{}, fmt.Errorf("generate reply: %w", err)
	}

	now := time.Now()
	history := s.store.ChatMessages(ctx)
	history = append(history,
		store.ChatMessage{ID: uuid.NewString(), Role: "user", Text: message, Timestamp: now},
	)
	assistantMsg := store.ChatMessage{ID: uuid.NewString(), Role: "assistant", Text: reply, Timestamp: now}
	history = append(history, assistantMsg)

	if err := s.store.SaveChatMessages(ctx, history); err != nil {
		slog.ErrorContext(ctx, "Failed to persist chat history", "error", err)
		// The reply still goes back to the user; history is best-effort.
	}

	return assistantMsg, nil
}

// PrimaryGoal returns the persisted savings goal, empty when unset.
func (s *DashboardService) PrimaryGoal(ctx context.Context) string {
	return s.store.PrimaryGoal(ctx)
}

// SetPrimaryGoal persists the savings goal shown on the dashboard.
func (s *DashboardService) SetPrimaryGoal(ctx context.Context, goal string) error {
	if err := s.store.SavePrimaryGoal(ctx, goal); err != nil {
		return fmt.Errorf("save primary goal: %w", err)
	}
	return nil
}

// Explain asks the assistant to explain one derived metric for the given
// period in plain language.
func (s *DashboardService) Explain(ctx context.Context, topic string, month, year int) (string, error) {
	if s.generator == nil {
		return "", ErrAssistantUnavailable
	}

	summary := s.Overview(ctx, month, year)
	reply, err := s.generator.Generate(ctx, assistant.BuildExplainPrompt(topic, summary))
	if err != nil {
		return "", fmt.Errorf("generate explanation: %w", err)
	}
	return reply, nil
}

// ChatHistory returns the persisted conversation.
func (s *DashboardService) ChatHistory(ctx context.Context) []store.ChatMessage {
	return s.store.ChatMessages(ctx)
}

func (s *DashboardService) refreshNetWorth(ctx context.Context, groups metrics.AssetGroups) {
	if err := s.store.SaveNetWorthMirror(ctx, metrics.NetWorth(groups)); err != nil {
		slog.ErrorContext(ctx, "Failed to persist net worth mirror", "error", err)
	}
	now := time.Now()
	s.publishRefresh(ctx, int(now.Month())-1, now.Year(), amqp.ReasonAssetChanged)
}

func (s *DashboardService) publishRefresh(ctx context.Context, month, year int, reason string) {
	if s.events == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping refresh message")
		return
	}
	if err := s.events.PublishRefresh(ctx, month, year, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish refresh message",
			"month", month, "year", year, "reason", reason, "error", err)
		// Don't fail the request - the edit is already saved
	}
}

func removeByName(assets []core.Asset, name string) []core.Asset {
	out := assets[:0]
	for _, a := range assets {
		if a.Name != name {
			out = append(out, a)
		}
	}
	return out
}
