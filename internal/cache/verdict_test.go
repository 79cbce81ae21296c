package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/veracitylab/veracity/internal/model"
)

func TestVerdictCache_HitWithinTTL(t *testing.T) {
	c := NewVerdictCache(time.Minute)

	var computes int64
	compute := func(ctx context.Context) (*model.VerificationVerdict, error) {
		atomic.AddInt64(&computes, 1)
		return &model.VerificationVerdict{Verified: true, Confidence: 0.9}, nil
	}

	first, err := c.GetOrCompute(context.Background(), "same text", compute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := c.GetOrCompute(context.Background(), "same text", compute)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if computes != 1 {
		t.Errorf("Expected 1 compute, got %d", computes)
	}
	if first != second {
		t.Error("Expected cache hit to return the stored verdict")
	}
}

func TestVerdictCache_ExpiryRecomputes(t *testing.T) {
	c := NewVerdictCache(20 * time.Millisecond)

	var computes int64
	compute := func(ctx context.Context) (*model.VerificationVerdict, error) {
		atomic.AddInt64(&computes, 1)
		return &model.VerificationVerdict{Confidence: 0.5}, nil
	}

	if _, err := c.GetOrCompute(context.Background(), "expiring", compute); err != nil {
		t.Fatal(err)
	}

	time.Sleep(40 * time.Millisecond)

	if _, err := c.GetOrCompute(context.Background(), "expiring", compute); err != nil {
		t.Fatal(err)
	}

	if computes != 2 {
		t.Errorf("Expected recompute after TTL, got %d computes", computes)
	}
}

func TestVerdictCache_ConcurrentSingleCompute(t *testing.T) {
	c := NewVerdictCache(time.Minute)

	var computes int64
	compute := func(ctx context.Context) (*model.VerificationVerdict, error) {
		atomic.AddInt64(&computes, 1)
		time.Sleep(20 * time.Millisecond)
		return &model.VerificationVerdict{Verified: true}, nil
	}

	var wg sync.WaitGroup
	verdicts := make([]*model.VerificationVerdict, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err := c.GetOrCompute(context.Background(), "contended text", compute)
			if err != nil {
				t.Errorf("Expected no error, got %v", err)
				return
			}
			verdicts[idx] = v
		}(i)
	}
	wg.Wait()

	if computes != 1 {
		t.Errorf("Expected at most one compute under contention, got %d", computes)
	}
	for _, v := range verdicts {
		if v != verdicts[0] {
			t.Error("Expected all callers to observe the same stored verdict")
			break
		}
	}
}

func TestVerdictCache_DistinctKeysComputeIndependently(t *testing.T) {
	c := NewVerdictCache(time.Minute)

	var computes int64
	compute := func(ctx context.Context) (*model.VerificationVerdict, error) {
		atomic.AddInt64(&computes, 1)
		return &model.VerificationVerdict{}, nil
	}

	var wg sync.WaitGroup
	for _, text := range []string{"text one", "text two", "text one "} {
		wg.Add(1)
		go func(s string) {
			defer wg.Done()
			if _, err := c.GetOrCompute(context.Background(), s, compute); err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		}(text)
	}
	wg.Wait()

	// Trailing whitespace is a different key on purpose.
	if computes != 3 {
		t.Errorf("Expected 3 computes for 3 distinct texts, got %d", computes)
	}
}

func TestVerdictCache_FailedComputeLeavesKeyAbsent(t *testing.T) {
	c := NewVerdictCache(time.Minute)

	var computes int64
	fail := func(ctx context.Context) (*model.VerificationVerdict, error) {
		atomic.AddInt64(&computes, 1)
		return nil, context.Canceled
	}
	ok := func(ctx context.Context) (*model.VerificationVerdict, error) {
		atomic.AddInt64(&computes, 1)
		return &model.VerificationVerdict{Verified: true}, nil
	}

	if _, err := c.GetOrCompute(context.Background(), "flaky", fail); err == nil {
		t.Fatal("Expected compute error to propagate")
	}

	v, err := c.GetOrCompute(context.Background(), "flaky", ok)
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if !v.Verified {
		t.Error("Expected the retried verdict, not a cached failure")
	}
	if computes != 2 {
		t.Errorf("Expected 2 computes, got %d", computes)
	}
}
