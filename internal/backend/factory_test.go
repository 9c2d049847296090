package backend

import (
	"context"
	"path/filepath"
	"testing"

	"budgeteer/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "./x.db"}

	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if bc.Type != SQLiteBackend || bc.SQLiteDBPath != "./x.db" {
		t.Errorf("config = %+v", bc)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend type")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil)

	result, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.KeyValue == nil {
		t.Fatal("KeyValue is nil")
	}
	if result.Cleanup != nil {
		t.Error("memory backend should not need cleanup")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	dbPath := filepath.Join(t.TempDir(), "budgeteer.db")

	result, err := f.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer result.Cleanup()

	ctx := context.Background()
	if err := result.KeyValue.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	var got string
	found, err := result.KeyValue.Get(ctx, "k", &got)
	if err != nil || !found || got != "v" {
		t.Errorf("Get() = %q, %v, %v", got, found, err)
	}
}

func TestCreateBackendRejectsInvalidType(t *testing.T) {
	f := NewFactory(nil)

	if _, err := f.CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Error("expected error for invalid backend type")
	}
}
