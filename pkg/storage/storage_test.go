package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "courier.sqlite")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if _, ok, err := db.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("missing key should be (_, false, nil), got ok=%v err=%v", ok, err)
	}

	if err := db.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	v, ok, err := db.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("Get = (%q, %v, %v), want (v2, true, nil)", v, ok, err)
	}

	if err := db.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := db.Get(ctx, "k"); ok {
		t.Fatal("deleted key should be gone")
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "courier.sqlite")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Set(ctx, "tracking_data", `{"AB12":"in transit"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	v, ok, err := db.Get(ctx, "tracking_data")
	if err != nil || !ok || v != `{"AB12":"in transit"}` {
		t.Fatalf("Get after reopen = (%q, %v, %v)", v, ok, err)
	}
}
