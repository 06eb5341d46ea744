package circuit

import (
	"fmt"
	"time"
)

// TODO:
// - in case of the rate breaker, there are unnecessary synchronization steps due to the 3rd party gobreaker
// - introduce a TTL in the rate breaker for the stale samplers

type BreakerType int

const (
	BreakerNone BreakerType = iota
	ConsecutiveFailures
	FailureRate
	BreakerDisabled
)

func (t BreakerType) String() string {
	switch t {
	case ConsecutiveFailures:
		return "consecutive"
	case FailureRate:
		return "rate"
	case BreakerDisabled:
		return "disabled"
	default:
		return ""
	}
}

// BreakerSettings describes how a single resource's circuit breaker should
// behave. Settings with an empty Resource act as the registry-wide default
// that per-resource settings are merged against.
type BreakerSettings struct {
	Type             BreakerType
	Resource         string
	Window, Failures int
	Timeout          time.Duration
	HalfOpenRequests int
	IdleTTL          time.Duration
}

func (s BreakerSettings) String() string {
	return fmt.Sprintf(
		"type=%s,resource=%s,window=%d,failures=%d,timeout=%s,half-open-requests=%d,idle-ttl=%s",
		s.Type, s.Resource, s.Window, s.Failures, s.Timeout, s.HalfOpenRequests, s.IdleTTL,
	)
}

type breakerImplementation interface {
	Allow() (func(bool), bool)
}

type voidBreaker struct{}

// represents a single circuit breaker
type Breaker struct {
	settings   BreakerSettings
	ts         time.Time
	prev, next *Breaker
	impl       breakerImplementation
}

func (to BreakerSettings) mergeSettings(from BreakerSettings) BreakerSettings {
	if to.Type == BreakerNone {
		to.Type = from.Type

		if from.Type == ConsecutiveFailures {
			to.Failures = from.Failures
		}

		if from.Type == FailureRate {
			to.Window = from.Window
			to.Failures = from.Failures
		}
	}

	if to.Timeout == 0 {
		to.Timeout = from.Timeout
	}

	if to.HalfOpenRequests == 0 {
		to.HalfOpenRequests = from.HalfOpenRequests
	}

	if to.IdleTTL == 0 {
		to.IdleTTL = from.IdleTTL
	}

	return to
}

func (b voidBreaker) Allow() (func(bool), bool) {
	return func(bool) {}, true
}

func newBreaker(s BreakerSettings) *Breaker {
	var impl breakerImplementation
	switch s.Type {
	case ConsecutiveFailures:
		impl = newConsecutive(s)
	case FailureRate:
		impl = newRate(s)
	default:
		impl = voidBreaker{}
	}

	return &Breaker{
		settings: s,
		impl:     impl,
	}
}

func (b *Breaker) Allow() (func(bool), bool) {
	return b.impl.Allow()
}

func (b *Breaker) idle(now time.Time) bool {
	return now.Sub(b.ts) > b.settings.IdleTTL
}
