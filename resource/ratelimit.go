package resource

import "golang.org/x/time/rate"

// RateLimited is an optional capability a resource can implement to give
// decision node b13 a per-resource token-bucket limiter (spec.md §4.2 b13,
// expanded in SPEC_FULL.md §11.2). When a resource implements it and the
// returned limiter is exhausted, b13 halts with 503 exactly as if
// ServiceAvailable had returned false, before any other callback runs.
type RateLimited interface {
	RateLimit() *rate.Limiter
}
