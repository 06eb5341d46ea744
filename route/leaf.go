package route

import "github.com/kellymclaughlin/airship/resource"

// LeafKind distinguishes what a trie key represents.
type LeafKind int

const (
	// RouteMatch is a terminal literal match.
	RouteMatch LeafKind = iota
	// RVar marks the position where a variable must be consumed.
	RVar
	// RouteMatchOrVar is both a terminal and a variable-continuation at
	// the same key.
	RouteMatchOrVar
	// Wildcard matches this prefix and any remainder.
	Wildcard
)

// Leaf is the value stored at one trie key.
type Leaf struct {
	Kind     LeafKind
	Resource resource.Callbacks
	Route    Route
	VarNames []string
}

// promote turns a RouteMatch leaf into a RouteMatchOrVar carrying the same
// resource and var names, used by the merge table below.
func promote(l *Leaf) *Leaf {
	return &Leaf{Kind: RouteMatchOrVar, Resource: l.Resource, Route: l.Route, VarNames: l.VarNames}
}

// mergeLeaf implements the merge policy table in spec.md §4.1 exactly: old
// is whatever was already registered at a key, new is the value being
// inserted for the same key. Earlier-registered routes win on conflicts,
// except wildcards, which always win regardless of order.
//
// This intentionally diverges from the original source's merge_values
// (_examples/original_source/src/route.rs), whose (RouteMatch, RouteMatch)
// and (RouteMatchOrVar, RouteMatch) arms let the newer registration win --
// the opposite of what spec.md's table and its own "first registered
// mapping wins" invariant (spec.md §3) specify. See DESIGN.md.
func mergeLeaf(old, new *Leaf) *Leaf {
	switch old.Kind {
	case Wildcard:
		return old
	case RouteMatch:
		switch new.Kind {
		case Wildcard:
			return new
		case RouteMatch:
			return old
		default: // RVar, RouteMatchOrVar
			return promote(old)
		}
	case RVar:
		switch new.Kind {
		case Wildcard:
			return new
		case RouteMatch:
			return promote(new)
		case RVar:
			return old
		default: // RouteMatchOrVar
			return old
		}
	default: // RouteMatchOrVar
		if new.Kind == Wildcard {
			return new
		}
		return old
	}
}
