package fetch

import (
	"context"
	"testing"
	"time"
)

func TestDomainThrottleSharesLimiterAcrossSameHost(t *testing.T) {
	th := newDomainThrottle(100, 100)

	a := th.limiterFor("http://example.com/a")
	b := th.limiterFor("http://example.com/b")

	if a != b {
		t.Fatal("limiterFor() returned distinct limiters for the same host")
	}
}

func TestDomainThrottleIsolatesDistinctHosts(t *testing.T) {
	th := newDomainThrottle(100, 100)

	a := th.limiterFor("http://example.com")
	b := th.limiterFor("http://other.example")

	if a == b {
		t.Fatal("limiterFor() shared a limiter across distinct hosts")
	}
}

func TestDomainThrottleWaitRespectsContextCancellation(t *testing.T) {
	th := newDomainThrottle(0.001, 0.001)

	// The first domainLimiterBurst waits below use up the per-domain burst,
	// so the next token is ~1000s away; a wait bounded by a 1ms deadline
	// must return its error instead of blocking.
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	for i := 0; i < domainLimiterBurst; i++ {
		_ = th.wait(context.Background(), "http://example.com")
	}

	if err := th.wait(ctx, "http://example.com"); err == nil {
		t.Fatal("wait() error = nil, want context deadline error")
	}
}
