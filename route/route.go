/*
Package route parses route templates and compiles a RoutingSpec into a
RoutingTrie that maps request paths to resources, path parameters, and a
dispatch path, per the router algorithm in spec.md §4.1.
*/
package route

import "strings"

// SegmentKind distinguishes the three kinds of template segment.
type SegmentKind int

const (
	// Bound is a literal path segment.
	Bound SegmentKind = iota
	// Var is a named path variable.
	Var
	// Rest is the trailing wildcard; at most one, only as the last segment.
	Rest
)

// Segment is one element of a Route.
type Segment struct {
	Kind    SegmentKind
	Literal string // set when Kind == Bound
	Name    string // set when Kind == Var
}

// Route is an ordered sequence of segments describing a path template.
type Route []Segment

// Parse splits a "</>"-delimited route template into a Route. A segment of
// the form "::name::" declares a variable named name; a segment of "*" is
// the wildcard; any other token is literal. Whitespace around "</>" is
// stripped.
func Parse(template string) Route {
	parts := strings.Split(template, "</>")
	route := make(Route, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "::") && strings.HasSuffix(part, "::") && len(part) >= 4:
			name := strings.TrimSuffix(strings.TrimPrefix(part, "::"), "::")
			route = append(route, Segment{Kind: Var, Name: name})
		case part == "*":
			route = append(route, Segment{Kind: Rest})
		default:
			route = append(route, Segment{Kind: Bound, Literal: part})
		}
	}
	return route
}

// Text renders route back into its "</>"-delimited template form, mainly
// useful for logging and diagnostics.
func (r Route) Text() string {
	parts := make([]string, len(r))
	for i, seg := range r {
		switch seg.Kind {
		case Var:
			parts[i] = "::" + seg.Name + "::"
		case Rest:
			parts[i] = "*"
		default:
			parts[i] = seg.Literal
		}
	}
	return strings.Join(parts, " </> ")
}

// Root is the empty route, matching the server root ("/").
func Root() Route { return Route{} }

// Bound1 is a single literal segment, for building routes programmatically.
func Bound1(literal string) Route { return Route{{Kind: Bound, Literal: literal}} }

// VarSeg is a single named-variable segment, for building routes
// programmatically instead of parsing a "::name::" template token.
func VarSeg(name string) Route { return Route{{Kind: Var, Name: name}} }

// Star is the trailing wildcard segment.
func Star() Route { return Route{{Kind: Rest}} }
