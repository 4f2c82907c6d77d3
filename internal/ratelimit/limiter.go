package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStoreUnavailable indicates the backing counter store could not be
// reached. Callers must treat this as a deny (fail closed).
var ErrStoreUnavailable = errors.New("rate limit store unavailable")

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter evaluates per-IP, per-route-class request budgets against a
// shared counter store.
type Limiter struct {
	store    CounterStore
	policies map[RouteClass]Policy
}

// NewLimiter creates a limiter over the given store. Nil policies fall
// back to DefaultPolicies.
func NewLimiter(store CounterStore, policies map[RouteClass]Policy) *Limiter {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Limiter{store: store, policies: policies}
}

// Policy returns the budget configured for the class.
func (l *Limiter) Policy(class RouteClass) (Policy, bool) {
	p, ok := l.policies[class]
	return p, ok
}

// Check atomically counts the request against the (clientIP, class) window
// and decides whether it may proceed. Two requests racing on the policy
// boundary observe distinct post-increment counts, so at most MaxRequests
// pass per window.
func (l *Limiter) Check(ctx context.Context, clientIP string, class RouteClass) (Decision, error) {
	policy, ok := l.policies[class]
	if !ok {
		return Decision{}, fmt.Errorf("no rate policy for route class %q", class)
	}

	key := windowKey(clientIP, class)
	count, ttl, err := l.store.Incr(ctx, key, policy.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	decision := Decision{
		Limit:   policy.MaxRequests,
		ResetAt: time.Now().Add(ttl),
	}

	if count > int64(policy.MaxRequests) {
		decision.Allowed = false
		decision.Remaining = 0
		decision.RetryAfter = ttl
		return decision, nil
	}

	decision.Allowed = true
	decision.Remaining = policy.MaxRequests - int(count)
	return decision, nil
}

func windowKey(clientIP string, class RouteClass) string {
	return "rl:" + string(class) + ":" + clientIP
}
