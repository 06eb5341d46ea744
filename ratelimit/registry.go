/*
Package ratelimit provides a per-resource token-bucket rate limiter on top
of golang.org/x/time/rate, wired into decision node b13 (SPEC_FULL.md
§11.2) as an alternative to a resource implementing resource.RateLimited
itself: a Registry lets an operator configure limits by resource name from
the command line (config.ratelimitFlags) instead of baking them into code.
*/
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Settings describes the limit for one resource, or the registry-wide
// default when Resource is empty.
type Settings struct {
	Resource string
	// Rate is the sustained rate in requests per second.
	Rate float64
	// Burst is the maximum burst size; it also bounds the token bucket.
	Burst int
}

// Registry holds one *rate.Limiter per resource name, built lazily from
// Settings the first time that resource is seen.
type Registry struct {
	mu       sync.Mutex
	defaults Settings
	named    map[string]Settings
	limiters map[string]*rate.Limiter
}

// NewRegistry builds a Registry from a flat list of settings; the single
// entry with an empty Resource, if any, becomes the registry-wide default.
func NewRegistry(settings ...Settings) *Registry {
	r := &Registry{
		named:    make(map[string]Settings),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, s := range settings {
		if s.Resource == "" {
			r.defaults = s
		} else {
			r.named[s.Resource] = s
		}
	}
	return r
}

// Get returns the limiter for resourceName, creating it on first use. It
// returns nil when neither the resource nor the registry defaults configure
// a rate, meaning the resource is unlimited.
func (r *Registry) Get(resourceName string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[resourceName]; ok {
		return l
	}

	s, ok := r.named[resourceName]
	if !ok {
		s = r.defaults
	}
	if s.Rate <= 0 {
		r.limiters[resourceName] = nil
		return nil
	}

	burst := s.Burst
	if burst <= 0 {
		burst = 1
	}

	l := rate.NewLimiter(rate.Limit(s.Rate), burst)
	r.limiters[resourceName] = l
	return l
}

// Allow reports whether a request against resourceName may proceed right
// now, consuming a token if so. An unconfigured resource is always allowed.
func (r *Registry) Allow(resourceName string) bool {
	l := r.Get(resourceName)
	if l == nil {
		return true
	}
	return l.Allow()
}
