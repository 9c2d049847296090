// Package store defines the key-value persistence ports and the typed
// accessors the dashboard uses over them. The persistence collaborator has
// localStorage semantics: get-or-default on read, overwrite on write, last
// write wins. The engine itself never touches persistence; everything here
// is caller-side plumbing.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"budgeteer/internal/core"
	"budgeteer/internal/metrics"
)

// Fixed persistence keys.
const (
	KeyBudgets             = "budgets"
	KeyAccounts            = "accounts"
	KeyLoans               = "loans"
	KeyInvestments         = "investments"
	KeyPrimaryGoal         = "primaryGoal"
	KeyNetWorth            = "netWorth" // cached mirror, not the source of truth
	KeySuggestionResponses = "suggestionResponses"
	KeyChatMessages        = "chatMessages"
)

// KeyValue is the outbound persistence port. Get decodes the stored JSON
// value into out and reports whether the key was present; absent keys leave
// out untouched so callers keep their fallback. Put overwrites
// unconditionally.
type KeyValue interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Put(ctx context.Context, key string, value any) error
}

// ChatMessage is one entry of the persisted conversation with the
// assistant collaborator.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Suggestion is a generated budget recommendation surfaced on the
// dashboard, persisted under suggestionResponses.
type Suggestion struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Category        string          `json:"category"`
	CurrentBudget   decimal.Decimal `json:"currentBudget"`
	SuggestedBudget decimal.Decimal `json:"suggestedBudget"`
}

// Store wraps a KeyValue port with typed accessors for the fixed keys.
// Reads fall back to the caller-supplied default on absence or error; the
// dashboard must keep working when persistence silently no-ops.
type Store struct {
	kv KeyValue
}

func New(kv KeyValue) *Store {
	return &Store{kv: kv}
}

func (s *Store) Budgets(ctx context.Context) []core.Budget {
	var out []core.Budget
	if found, err := s.kv.Get(ctx, KeyBudgets, &out); err != nil || !found {
		return nil
	}
	return out
}

func (s *Store) SaveBudgets(ctx context.Context, budgets []core.Budget) error {
	return s.kv.Put(ctx, KeyBudgets, budgets)
}

func (s *Store) Assets(ctx context.Context) metrics.AssetGroups {
	var groups metrics.AssetGroups
	s.getOrDefault(ctx, KeyAccounts, &groups.Accounts)
	s.getOrDefault(ctx, KeyLoans, &groups.Loans)
	s.getOrDefault(ctx, KeyInvestments, &groups.Investments)
	return groups
}

func (s *Store) SaveAssets(ctx context.Context, groups metrics.AssetGroups) error {
	if err := s.kv.Put(ctx, KeyAccounts, groups.Accounts); err != nil {
		return err
	}
	if err := s.kv.Put(ctx, KeyLoans, groups.Loans); err != nil {
		return err
	}
	return s.kv.Put(ctx, KeyInvestments, groups.Investments)
}

func (s *Store) PrimaryGoal(ctx context.Context) string {
	var goal string
	s.getOrDefault(ctx, KeyPrimaryGoal, &goal)
	return goal
}

func (s *Store) SavePrimaryGoal(ctx context.Context, goal string) error {
	return s.kv.Put(ctx, KeyPrimaryGoal, goal)
}

// NetWorthMirror is the persisted copy of the last computed net worth. It
// is display convenience only; the asset ledger stays the source of truth.
func (s *Store) NetWorthMirror(ctx context.Context) decimal.Decimal {
	var nw decimal.Decimal
	s.getOrDefault(ctx, KeyNetWorth, &nw)
	return nw
}

func (s *Store) SaveNetWorthMirror(ctx context.Context, nw decimal.Decimal) error {
	return s.kv.Put(ctx, KeyNetWorth, nw)
}

func (s *Store) Suggestions(ctx context.Context) []Suggestion {
	var out []Suggestion
	s.getOrDefault(ctx, KeySuggestionResponses, &out)
	return out
}

func (s *Store) SaveSuggestions(ctx context.Context, suggestions []Suggestion) error {
	return s.kv.Put(ctx, KeySuggestionResponses, suggestions)
}

func (s *Store) ChatMessages(ctx context.Context) []ChatMessage {
	var out []ChatMessage
	s.getOrDefault(ctx, KeyChatMessages, &out)
	return out
}

func (s *Store) SaveChatMessages(ctx context.Context, messages []ChatMessage) error {
	return s.kv.Put(ctx, KeyChatMessages, messages)
}

func (s *Store) getOrDefault(ctx context.Context, key string, out any) {
	// Errors are swallowed on purpose: a read failure degrades to the
	// zero-value fallback, matching get(key, fallback) semantics.
	_, _ = s.kv.Get(ctx, key, out)
}
