// Package fixture supplies the mock transaction feed. The feed is a
// finite, ordered collection owned by the application; the metrics engine
// only ever reads it. A data directory can override the embedded default,
// which makes local experiments cheap without a real import mechanism.
package fixture

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budgeteer/internal/core"
)

//go:embed data/transactions.json
var defaultFS embed.FS

// Feed is an immutable snapshot of the transaction history.
type Feed struct {
	txs []core.Transaction
}

// Transactions returns a copy of the feed so callers cannot mutate the
// snapshot underneath the engine.
func (f *Feed) Transactions() []core.Transaction {
	out := make([]core.Transaction, len(f.txs))
	copy(out, f.txs)
	return out
}

// Load reads transactions.json from base if present, falling back to the
// embedded default feed. A present-but-broken override is reported as an
// error rather than silently ignored.
func Load(base string) (*Feed, error) {
	if base != "" {
		path := filepath.Join(base, "transactions.json")
		if raw, err := os.ReadFile(path); err == nil {
			txs, err := decode(raw)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			slog.Info("Loaded transaction feed", "path", path, "count", len(txs))
			return &Feed{txs: txs}, nil
		}
	}
	return Default()
}

// Default returns the embedded feed.
func Default() (*Feed, error) {
	raw, err := defaultFS.ReadFile("data/transactions.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded feed: %w", err)
	}
	txs, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("parse embedded feed: %w", err)
	}
	return &Feed{txs: txs}, nil
}

func decode(raw []byte) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
