package inmemory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MycosoftLabs/biosearch/internal/search"
)

func result(query string) search.AggregateResult {
	r := search.EmptyResult(query, search.OriginLive)
	r.TotalCount = 1
	return r
}

func TestGetSetWithinTTL(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, 10)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatalf("unexpected hit on empty store")
	}
	s.Set(ctx, "k", result("reishi"))
	got, ok := s.Get(ctx, "k")
	if !ok || got.Query != "reishi" {
		t.Fatalf("expected hit, got ok=%v result=%+v", ok, got)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, 10)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Set(ctx, "k", result("reishi"))
	now = now.Add(59 * time.Second)
	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatalf("entry expired before TTL")
	}
	now = now.Add(2 * time.Second)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("entry survived past TTL")
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry should be deleted on read, len=%d", s.Len())
	}
}

func TestSweepOverThreshold(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, 5)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s.Set(ctx, fmt.Sprintf("old-%d", i), result("q"))
	}
	// age the first batch past the TTL, then overflow the threshold
	now = now.Add(2 * time.Minute)
	s.Set(ctx, "fresh", result("q"))

	if s.Len() != 1 {
		t.Fatalf("sweep should have removed the expired batch, len=%d", s.Len())
	}
	if _, ok := s.Get(ctx, "fresh"); !ok {
		t.Fatalf("fresh entry must survive the sweep")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()
	s := New(time.Minute, 64)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k-%d", j%16)
				s.Set(ctx, key, result(key))
				s.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
