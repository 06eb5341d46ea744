package resource

import "time"

// State is the minimal view of the decision engine's per-request state that
// resource callbacks are allowed to see: a small key/value bag for caching
// values that must only be computed once per traversal (spec.md §4.5 "pure
// with respect to ordering"), plus the request arrival time used by l15.
//
// decision.State implements this interface; resource deliberately doesn't
// import the decision package so that callback signatures don't force a
// cyclic dependency between the two packages.
type State interface {
	Value(key any) (any, bool)
	SetValue(key any, val any)
	RequestTime() time.Time
}
