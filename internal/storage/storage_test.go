package storage

import (
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Errorf("Expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(KeyLLMAPIKey, "secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, ok, err := s.Get(KeyLLMAPIKey)
	if err != nil || !ok || value != "secret" {
		t.Errorf("Expected secret, got %q ok=%v err=%v", value, ok, err)
	}

	// Set replaces.
	if err := s.Set(KeyLLMAPIKey, "rotated"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, _, _ = s.Get(KeyLLMAPIKey)
	if value != "rotated" {
		t.Errorf("Expected rotated, got %q", value)
	}

	if err := s.Delete(KeyLLMAPIKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(KeyLLMAPIKey); ok {
		t.Error("Expected key to be gone after delete")
	}
	// Deleting again is fine.
	if err := s.Delete(KeyLLMAPIKey); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set(KeyKindleBooks, `[{"id":"b1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer s.Close()

	value, ok, err := s.Get(KeyKindleBooks)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if value != `[{"id":"b1"}]` {
		t.Errorf("Unexpected value after reopen: %q", value)
	}
}

func TestStoreInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if value, ok, _ := s.Get("a"); !ok || value != "1" {
		t.Errorf("Expected 1, got %q ok=%v", value, ok)
	}
}
