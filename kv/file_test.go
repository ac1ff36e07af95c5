package kv

import (
	"context"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "spaces"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	want := []byte(`[{"id":"s1","name":"Reading"}]`)
	if err := s.Put(ctx, "spaces", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := s.Get(ctx, "spaces")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != string(want) {
		t.Fatalf("round trip mismatch: got %s", got)
	}

	// Overwrite wins.
	want2 := []byte(`[]`)
	if err := s.Put(ctx, "spaces", want2); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}
	got, _, _ = s.Get(ctx, "spaces")
	if string(got) != string(want2) {
		t.Fatalf("expected overwritten value, got %s", got)
	}

	if err := s.Delete(ctx, "spaces"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "spaces"); ok {
		t.Fatal("expected key gone after delete")
	}
	// Deleting a missing key is not an error.
	if err := s.Delete(ctx, "spaces"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()
	for _, key := range []string{"", "../escape", "a/b", `a\b`, ".."} {
		if err := s.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("Put(%q): expected error, got nil", key)
		}
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "items", []byte("[1]")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := s.Get(ctx, "items")
	if err != nil || !ok || string(got) != "[1]" {
		t.Fatalf("get: %s ok=%v err=%v", got, ok, err)
	}

	// The returned slice is a copy; mutating it must not corrupt the store.
	got[0] = 'X'
	again, _, _ := s.Get(ctx, "items")
	if string(again) != "[1]" {
		t.Fatalf("stored value mutated through returned slice: %s", again)
	}
}
