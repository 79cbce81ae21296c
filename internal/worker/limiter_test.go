package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 3)

	allowed := 0
	for i := 0; i < 5; i++ {
		if limiter.Allow("https://example.com/page") {
			allowed++
		}
	}

	if allowed != 3 {
		t.Errorf("Expected 3 allowed within burst, got %d", allowed)
	}
}

func TestLimiter_HostsIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://a.example.com/x") {
		t.Error("Expected first request to a.example.com allowed")
	}
	if !limiter.Allow("https://b.example.com/x") {
		t.Error("Expected first request to b.example.com allowed")
	}
	if limiter.Allow("https://a.example.com/y") {
		t.Error("Expected second request to a.example.com denied")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	// Exhaust the burst.
	if err := limiter.Wait(context.Background(), "https://slow.example.com/"); err != nil {
		t.Fatalf("Expected first wait to pass, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "https://slow.example.com/"); err == nil {
		t.Error("Expected wait to fail once context expires")
	}
}
