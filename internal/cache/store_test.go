package cache

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, found, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || string(got) != "v" {
		t.Errorf("Get = (%q, %v); want (v, true)", got, found)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	s := NewMemoryStore()

	_, found, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	s.now = func() time.Time { return current }

	if err := s.Set(ctx, "k", []byte("v"), 10*time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, found, _ := s.Get(ctx, "k"); !found {
		t.Fatal("entry should be live before expiry")
	}

	current = current.Add(11 * time.Second)
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Error("entry should be gone after ttl")
	}
}

func TestMemoryStore_NoExpiryWithZeroTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	s.now = func() time.Time { return current }

	s.Set(ctx, "k", []byte("v"), 0)
	current = current.Add(1000 * time.Hour)

	if _, found, _ := s.Get(ctx, "k"); !found {
		t.Error("zero-ttl entry should never expire")
	}
}

func TestMemoryStore_DeleteAndClear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "a", []byte("1"), 0)
	s.Set(ctx, "b", []byte("2"), 0)

	if err := s.Delete(ctx, "a", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Error("deleted key still present")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, found, _ := s.Get(ctx, "b"); found {
		t.Error("cleared key still present")
	}
}

func TestMemoryStore_Keys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	s.now = func() time.Time { return current }

	s.Set(ctx, "products:list:page_1", []byte("a"), time.Minute)
	s.Set(ctx, "products:list:page_2", []byte("b"), time.Second)
	s.Set(ctx, "product:detail:1", []byte("c"), time.Minute)

	current = current.Add(2 * time.Second)

	keys, err := s.Keys(ctx, "products:list")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 || !slices.Contains(keys, "products:list:page_1") {
		t.Errorf("Keys = %v; want only the live list key", keys)
	}
}
