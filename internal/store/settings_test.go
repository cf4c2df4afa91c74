package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func withEnv(t *testing.T, k, v string) {
	t.Helper()
	old, had := os.LookupEnv(k)
	if err := os.Setenv(k, v); err != nil {
		t.Fatalf("setenv %s: %v", k, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(k, old)
		} else {
			_ = os.Unsetenv(k)
		}
	})
}

func TestSQLiteSettings_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")
	s := NewSQLiteSettings(dir)

	if _, ok, err := s.Get(ctx, SheetURLKey); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, SheetURLKey, "https://example.test/a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, SheetURLKey, "https://example.test/b"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	// A fresh handle sees the durable value.
	v, ok, err := NewSQLiteSettings(dir).Get(ctx, SheetURLKey)
	if err != nil || !ok || v != "https://example.test/b" {
		t.Fatalf("get after reopen: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, sqliteFileName)); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}

	if err := s.Remove(ctx, SheetURLKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, SheetURLKey); ok {
		t.Fatalf("expected key removed")
	}
	if err := s.Remove(ctx, SheetURLKey); err != nil {
		t.Fatalf("remove missing key should be a no-op: %v", err)
	}
}

func TestSQLiteSettings_MissingDir(t *testing.T) {
	s := NewSQLiteSettings("  ")
	if _, _, err := s.Get(context.Background(), SheetURLKey); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}

func TestMemorySettings(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySettings(map[string]string{"a": "1"})

	if v, ok, _ := m.Get(ctx, "a"); !ok || v != "1" {
		t.Fatalf("initial value: v=%q ok=%v", v, ok)
	}
	_ = m.Set(ctx, "b", "2")
	_ = m.Remove(ctx, "a")
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatalf("expected a removed")
	}
	if v, _, _ := m.Get(ctx, "b"); v != "2" {
		t.Fatalf("b=%q", v)
	}

	var zero MemorySettings
	if err := zero.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("zero value set: %v", err)
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	withEnv(t, envConfigDir, dir)
	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Fatalf("ConfigDir()=%q err=%v", got, err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	if err := WriteFileAtomic(path, []byte("one"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("content=%q err=%v", b, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}
