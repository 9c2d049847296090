package store

import "context"

// Noop is a KeyValue that silently discards writes and never finds a key.
// The dashboard must tolerate a persistence collaborator behaving exactly
// like this: reads fall back to defaults, writes are fire-and-forget.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, out any) (bool, error) {
	return false, nil
}

func (Noop) Put(ctx context.Context, key string, value any) error {
	return nil
}
