// Package memory implements the key-value persistence port entirely
// in-process. It is the default backend: state survives for the life of the
// process and nothing else, mirroring a browser profile that was never
// persisted.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type Store struct {
	mu    sync.Mutex
	items map[string]json.RawMessage
}

func New() *Store {
	return &Store{items: make(map[string]json.RawMessage)}
}

// Get decodes the stored value for key into out. Absent keys report
// found=false and leave out untouched.
func (s *Store) Get(_ context.Context, key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.items[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Put overwrites the value for key. Last write wins.
func (s *Store) Put(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	s.mu.Lock()
	s.items[key] = raw
	s.mu.Unlock()
	return nil
}
