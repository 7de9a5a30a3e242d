package fetch

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// domainThrottle enforces a global request rate plus a per-domain request
// rate, so a batch of targets on the same site doesn't get hammered even
// when the worker pool is wide.
type domainThrottle struct {
	global    *rate.Limiter
	mu        sync.RWMutex
	perDomain map[string]*rate.Limiter
	domainRPS float64
}

func newDomainThrottle(globalRPS, domainRPS float64) *domainThrottle {
	return &domainThrottle{
		global:    rate.NewLimiter(rate.Limit(globalRPS), globalLimiterBurst),
		perDomain: make(map[string]*rate.Limiter),
		domainRPS: domainRPS,
	}
}

// wait blocks until both the global and the per-domain budget for rawURL
// allow another request, or ctx is done.
func (t *domainThrottle) wait(ctx context.Context, rawURL string) error {
	if err := t.global.Wait(ctx); err != nil {
		return err
	}

	return t.limiterFor(rawURL).Wait(ctx)
}

func (t *domainThrottle) limiterFor(rawURL string) *rate.Limiter {
	domain := hostOf(rawURL)

	t.mu.RLock()
	limiter, ok := t.perDomain[domain]
	t.mu.RUnlock()

	if ok {
		return limiter
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if limiter, ok := t.perDomain[domain]; ok {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(t.domainRPS), domainLimiterBurst)
	t.perDomain[domain] = limiter

	return limiter
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Host)
}
