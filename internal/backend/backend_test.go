package backend

import (
	"context"
	"testing"

	"tally/internal/config"
	"tally/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "file", DataDir: "/tmp/x"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != FileBackend || cfg.DataDir != "/tmp/x" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "redis"}); err == nil {
		t.Fatal("unknown backend should be rejected")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("nil config should be rejected")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		cfg Config
		ok  bool
	}{
		{Config{Type: FileBackend, DataDir: "/tmp/data"}, true},
		{Config{Type: FileBackend}, false},
		{Config{Type: SQLiteBackend, SQLiteDBPath: "/tmp/db.sqlite"}, true},
		{Config{Type: SQLiteBackend}, false},
		{Config{Type: MemoryBackend}, true},
		{Config{Type: "redis"}, false},
	}
	for i, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d: expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestOpenFileBackend(t *testing.T) {
	kv, cleanup, err := Open(Config{Type: FileBackend, DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	ctx := context.Background()
	if err := kv.Set(ctx, storage.KeyIncome, "42"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := kv.Get(ctx, storage.KeyIncome)
	if err != nil || !ok || v != "42" {
		t.Fatalf("round trip failed: %q %v %v", v, ok, err)
	}
}

func TestOpenMemoryBackend(t *testing.T) {
	kv, cleanup, err := Open(Config{Type: MemoryBackend}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	if kv == nil {
		t.Fatal("expected store")
	}
}
