package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/bookrank/core"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) err = %v, want not found", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get(k) = %q, %v", got, err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("deleted key should be gone, err = %v", err)
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_ = s.Set(ctx, "k", []byte("v"), 1)
	s.mu.Lock()
	s.data["k"].expire = time.Now().Add(-time.Second)
	s.mu.Unlock()

	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("expired key should be not found, err = %v", err)
	}
	got, _ := s.BatchGet(ctx, []string{"k"})
	if len(got) != 0 {
		t.Errorf("BatchGet should skip expired keys, got %v", got)
	}
}

func TestMemoryStore_BatchGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_ = s.Set(ctx, "a", []byte("1"))
	_ = s.Set(ctx, "b", []byte("2"))

	got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet() = %v", got)
	}
}

func TestNew(t *testing.T) {
	s, err := New(Config{Backend: "none"})
	if err != nil || s != nil {
		t.Errorf("New(none) = %v, %v; want nil, nil", s, err)
	}
	s, err = New(Config{Backend: "memory"})
	if err != nil || s == nil || s.Name() != "memory" {
		t.Errorf("New(memory) = %v, %v", s, err)
	}
	_ = s.Close()
	if _, err := New(Config{Backend: "etcd"}); err == nil {
		t.Error("New(etcd) should fail")
	}
}
