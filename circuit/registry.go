package circuit

import "time"

// DefaultIdleTTL is used for the registry-wide breaker eviction sweep when
// the defaults don't specify one.
const DefaultIdleTTL = time.Hour

// ResourceSettingsKey is a state-bag key name reserved for per-request
// breaker settings. Nothing in this module reads it: the decision engine
// looks breakers up by resource name alone.
const ResourceSettingsKey = "#circuitbreakersettings"

// Registry holds the circuit breakers for every resource seen so far. It
// merges registry-wide defaults and per-resource settings onto whatever
// BreakerSettings a caller passes to Get, so call sites never need to know
// whether a specific resource has tuned settings.
type Registry struct {
	defaults         BreakerSettings
	resourceSettings map[string]BreakerSettings
	idleTTL          time.Duration
	lookup           map[BreakerSettings]*Breaker
	access           *list
	sync             chan *Registry
}

// NewRegistry builds a Registry from a flat list of settings. The single
// entry with an empty Resource, if any, becomes the registry-wide default;
// every other entry configures one named resource.
func NewRegistry(settings ...BreakerSettings) *Registry {
	var defaults BreakerSettings
	hs := make(map[string]BreakerSettings)
	for _, s := range settings {
		if s.Resource == "" {
			defaults = s
		} else {
			hs[s.Resource] = s
		}
	}

	for resource, s := range hs {
		hs[resource] = s.mergeSettings(defaults)
	}

	idleTTL := defaults.IdleTTL
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	r := &Registry{
		defaults:         defaults,
		resourceSettings: hs,
		idleTTL:          idleTTL,
		lookup:           make(map[BreakerSettings]*Breaker),
		access:           &list{},
		sync:             make(chan *Registry, 1),
	}

	r.sync <- r
	return r
}

func (r *Registry) synced(f func()) {
	r = <-r.sync
	f()
	r.sync <- r
}

func (r *Registry) applySettings(s BreakerSettings) BreakerSettings {
	config, ok := r.resourceSettings[s.Resource]
	if !ok {
		config = r.defaults
	}

	return s.mergeSettings(config)
}

func (r *Registry) dropLookup(b *Breaker) {
	for b != nil {
		delete(r.lookup, b.settings)
		b = b.next
	}
}

// Get returns the breaker for the given settings, creating it on demand and
// resetting it once it has been idle longer than its own IdleTTL. It returns
// nil when the resource opted out of circuit breaking entirely.
func (r *Registry) Get(s BreakerSettings) *Breaker {
	if s.Type == BreakerDisabled || s.Resource == "" {
		return nil
	}

	s = r.applySettings(s)
	if s.Type == BreakerNone {
		return nil
	}

	var b *Breaker
	r.synced(func() {
		now := time.Now()

		cur, ok := r.lookup[s]
		if ok && cur.idle(now) {
			r.access.remove(cur, cur)
			delete(r.lookup, s)
			ok = false
		}

		if !ok {
			drop, _ := r.access.dropHeadIf(func(b *Breaker) bool {
				return now.Sub(b.ts) > r.idleTTL
			})
			r.dropLookup(drop)

			cur = newBreaker(s)
			r.lookup[s] = cur
		}

		cur.ts = now
		r.access.appendLast(cur)
		b = cur
	})

	return b
}
