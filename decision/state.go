/*
Package decision implements the Webmachine-style decision graph: roughly 40
labeled nodes, traversed once per request, that interpret HTTP/1.1 method
handling, content negotiation, conditional requests, and create/update/
delete choreography by querying a resource's Callbacks and the request
itself (spec.md §4.2).
*/
package decision

import (
	"net/http"
	"strings"
	"time"

	"github.com/kellymclaughlin/airship/resource"
)

// quip is the static phrase the original source attached to every halted
// response via Airship-Quip (_examples/original_source/src/decision.rs).
const quip = "blame me if inappropriate"

// Response is the HTTP response a traversal produces.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// State is the mutable per-request context a single traversal owns
// exclusively: the decision trace, the response under construction, the
// negotiated content type, and the request's arrival time (spec.md §3).
// State is never shared across traversals and satisfies resource.State so
// callbacks can cache ordering-sensitive computations on it.
type State struct {
	trace   []string
	status  int
	header  http.Header
	body    []byte
	final   bool

	matchedType *resource.Provided

	requestTime time.Time
	requestID   string

	cache map[any]any
}

// New creates the state a single traversal will own, capturing requestTime
// as the reference point l15 compares If-Modified-Since against.
func New(requestTime time.Time) *State {
	return &State{
		status:      http.StatusOK,
		header:      make(http.Header),
		requestTime: requestTime,
		cache:       make(map[any]any),
	}
}

// RequestID is the value echoed on every response via X-Flow-Id (SPEC_FULL
// §10.4).
func (s *State) RequestID() string     { return s.requestID }
func (s *State) SetRequestID(id string) { s.requestID = id }

func (s *State) trackNode(label string) {
	s.trace = append(s.trace, label)
}

// Trace returns the ordered sequence of node labels visited so far.
func (s *State) Trace() []string { return append([]string(nil), s.trace...) }

// TraceHeader is the comma-joined trace used for the Airship-Trace header.
func (s *State) TraceHeader() string { return strings.Join(s.trace, ",") }

func (s *State) setHeader(key, value string) { s.header.Set(key, value) }

func (s *State) hasHeader(key string) bool { return s.header.Get(key) != "" }

// SetMatchedContentType records the (mime, producer) pair c04 negotiated.
func (s *State) SetMatchedContentType(p resource.Provided) { s.matchedType = &p }

// MatchedContentType returns the content type negotiated at c04, if any.
func (s *State) MatchedContentType() (resource.Provided, bool) {
	if s.matchedType == nil {
		return resource.Provided{}, false
	}
	return *s.matchedType, true
}

// IsBodyEmpty reports whether the response body assembled so far is empty,
// the test o20 uses to decide between 201 and falling through to o18.
func (s *State) IsBodyEmpty() bool { return len(s.body) == 0 }

func (s *State) setBody(b []byte) { s.body = b }

// Value and SetValue implement resource.State's per-traversal cache.
func (s *State) Value(key any) (any, bool) {
	v, ok := s.cache[key]
	return v, ok
}

func (s *State) SetValue(key any, val any) { s.cache[key] = val }

// RequestTime implements resource.State.
func (s *State) RequestTime() time.Time { return s.requestTime }

// finalize fills in the halting status and, for terminal nodes that attach
// the standard headers (spec.md §4.2), the Server/Airship-Trace/
// Airship-Quip triplet. serverID is the framework identifier used for the
// Server header (SPEC_FULL §12.4).
func (s *State) finalize(status int, serverID string, withHeaders bool) {
	if s.final {
		return
	}
	s.status = status
	s.final = true

	if withHeaders {
		s.header.Set("Server", serverID)
		s.header.Set("Airship-Trace", s.TraceHeader())
		// A node that halted with its own Airship-Quip (e.g. haltForActionError's
		// "circuit open") already set the header before calling halt; don't
		// clobber it with the static quip.
		if s.header.Get("Airship-Quip") == "" {
			s.header.Set("Airship-Quip", quip)
		}
	}
}

func (s *State) response() Response {
	return Response{Status: s.status, Header: s.header, Body: s.body}
}
