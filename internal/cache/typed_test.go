// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type snapshot struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestTypedCacheRoundTrip(t *testing.T) {
	backend := NewMemoryCache(time.Minute)
	defer backend.Close()
	typed := NewTypedCache[snapshot](backend, time.Minute)
	ctx := context.Background()

	if _, ok := typed.Get(ctx, "k"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	want := &snapshot{Name: "front-page", Count: 7}
	if err := typed.Set(ctx, "k", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := typed.Get(ctx, "k")
	if !ok {
		t.Fatal("Get reported a miss after Set")
	}
	if got.Name != want.Name || got.Count != want.Count {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	if err := typed.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := typed.Get(ctx, "k"); ok {
		t.Error("Get reported a hit after Delete")
	}
}

func TestTypedCacheCorruptEntryIsAMiss(t *testing.T) {
	backend := NewMemoryCache(time.Minute)
	defer backend.Close()
	typed := NewTypedCache[snapshot](backend, time.Minute)
	ctx := context.Background()

	if err := backend.Set(ctx, "k", []byte("not json"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok := typed.Get(ctx, "k"); ok {
		t.Error("corrupt entry reported as a hit")
	}
}

func TestTypedCacheGetOrSet(t *testing.T) {
	backend := NewMemoryCache(time.Minute)
	defer backend.Close()
	typed := NewTypedCache[snapshot](backend, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() (*snapshot, error) {
		calls++
		return &snapshot{Name: "loaded", Count: calls}, nil
	}

	first, err := typed.GetOrSet(ctx, "k", load)
	if err != nil {
		t.Fatal(err)
	}
	second, err := typed.GetOrSet(ctx, "k", load)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if first.Count != second.Count {
		t.Errorf("cached value differs from loaded value: %d vs %d", first.Count, second.Count)
	}

	wantErr := errors.New("load failed")
	_, err = typed.GetOrSet(ctx, "other", func() (*snapshot, error) { return nil, wantErr })
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrSet error = %v, want %v", err, wantErr)
	}
}
