// Package ratelimit bounds request volume per client IP and route class
// before any account-specific logic runs. Counters live in a shared backing
// store so the limits hold across every running service instance, not just
// within one process.
package ratelimit

import "time"

// RouteClass identifies the logical group of routes a policy covers.
type RouteClass string

const (
	// ClassGlobal covers all state-changing requests. GET requests are exempt.
	ClassGlobal RouteClass = "global"
	// ClassLogin covers credential submission.
	ClassLogin RouteClass = "login"
	// ClassRegister covers account creation.
	ClassRegister RouteClass = "register"
	// ClassSensitive covers refresh and other high-value low-frequency
	// operations.
	ClassSensitive RouteClass = "sensitive"
)

// Policy is a fixed-window request budget for one route class.
type Policy struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultPolicies returns the per-class budgets.
func DefaultPolicies() map[RouteClass]Policy {
	return map[RouteClass]Policy{
		ClassGlobal:    {Window: 15 * time.Minute, MaxRequests: 100},
		ClassLogin:     {Window: 5 * time.Minute, MaxRequests: 5},
		ClassRegister:  {Window: time.Hour, MaxRequests: 3},
		ClassSensitive: {Window: 15 * time.Minute, MaxRequests: 10},
	}
}
