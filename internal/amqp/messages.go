package amqp

import (
	"encoding/json"
	"time"
)

// Reasons a refresh can be requested. The worker treats them all the same;
// they exist for log context.
const (
	ReasonBudgetChanged = "budget_changed"
	ReasonAssetChanged  = "asset_changed"
	ReasonPeriodicTick  = "periodic_tick"
)

// RefreshMessage asks the worker to recompute derived metrics for one
// period. It is deliberately small: the worker reads the full snapshot from
// the store itself, so a stale message can never inject stale data.
type RefreshMessage struct {
	Month     int       `json:"month"` // 0-11
	Year      int       `json:"year"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRefreshMessage creates a refresh request for the given period.
func NewRefreshMessage(month, year int, reason string) *RefreshMessage {
	return &RefreshMessage{
		Month:     month,
		Year:      year,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshMessageFromJSON creates a message from JSON bytes
func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
