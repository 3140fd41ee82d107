package kv

import (
	"context"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("missing key should be (_, false, nil), got ok=%v err=%v", ok, err)
	}

	if err := m.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := m.Get(ctx, "k")
	if err != nil || !ok || v != "v1" {
		t.Fatalf("Get = (%q, %v, %v)", v, ok, err)
	}

	if err := m.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = m.Get(ctx, "k")
	if v != "v2" {
		t.Fatalf("expected overwrite to v2, got %q", v)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("deleted key should be gone")
	}
}
