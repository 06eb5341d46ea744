/*
Package resource defines the capability surface the decision engine queries
at each node of the graph (spec.md §4.5): a fixed, enumerated set of
query-style callbacks, each with a safe default, overridden selectively by
application-supplied resources.
*/
package resource

import (
	"net/http"
	"time"
)

// Provided is one entry of content_types_provided: a media type the
// resource can serve, and the function that produces its response body.
type Provided struct {
	Type    string
	Produce func(*http.Request) ([]byte, error)
}

// Accepted is one entry of content_types_accepted (or
// patch_content_types_accepted): a media type the resource can consume in a
// request body, and the action to run when it matches.
type Accepted struct {
	Type   string
	Action func(*http.Request) error
}

// AcceptedRedirect is like Accepted, except its action additionally yields
// the Location value for a PostProcessRedirect response.
type AcceptedRedirect struct {
	Type   string
	Action func(*http.Request) (location string, err error)
}

// splitMediaType strips any ";charset=..."-style parameters, matching the
// exact-equality rule spec.md §4.3 prescribes for the Content-Type ->
// accepted matcher.
func splitMediaType(mime string) string {
	for i := 0; i < len(mime); i++ {
		if mime[i] == ';' {
			return mime[:i]
		}
	}
	return mime
}

// MatchAccepted finds the first entry of accepted whose Type equals mime,
// ignoring any media type parameters.
func MatchAccepted(mime string, accepted []Accepted) (Accepted, bool) {
	base := splitMediaType(mime)
	for _, a := range accepted {
		if splitMediaType(a.Type) == base {
			return a, true
		}
	}
	return Accepted{}, false
}

// MatchAcceptedRedirect is MatchAccepted for the AcceptedRedirect variant.
func MatchAcceptedRedirect(mime string, accepted []AcceptedRedirect) (AcceptedRedirect, bool) {
	base := splitMediaType(mime)
	for _, a := range accepted {
		if splitMediaType(a.Type) == base {
			return a, true
		}
	}
	return AcceptedRedirect{}, false
}

// Callbacks is the polymorphic capability surface the decision engine
// invokes at each node of the graph. Implementers override only what they
// need; embedding Defaults (see defaults.go) supplies every method with its
// safe default so a resource only has to implement what differs.
//
// Every callback takes the per-request State so it can cache expensive or
// ordering-sensitive computations (spec.md §4.5): the engine may invoke a
// callback more than once only along genuinely distinct branches of the
// traversal (e.g. LastModified at h12, l17 and o18).
type Callbacks interface {
	ServiceAvailable(state State) bool
	AllowedMethods(state State) []string
	URITooLong(state State, uri string) bool
	MalformedRequest(state State, req *http.Request) bool
	IsAuthorized(state State, req *http.Request) bool
	Forbidden(state State, req *http.Request) bool
	ValidContentHeaders(state State, req *http.Request) bool
	KnownContentType(state State, req *http.Request) bool
	EntityTooLarge(state State, req *http.Request) bool

	ContentTypesProvided(state State) []Provided
	ContentTypesAccepted(state State) []Accepted
	PatchContentTypesAccepted(state State) []Accepted
	LanguageAvailable(state State, acceptLanguage string) bool

	ResourceExists(state State) bool
	PreviouslyExisted(state State) bool
	MovedPermanently(state State) (location string, ok bool)
	MovedTemporarily(state State) (location string, ok bool)
	MultipleChoices(state State) bool

	LastModified(state State) (t time.Time, ok bool)
	GenerateETag(state State, req *http.Request) (etag string, ok bool)

	IsConflict(state State) bool
	AllowMissingPost(state State) bool
	ProcessPost(state State, req *http.Request) PostResponse
	DeleteResource(state State, req *http.Request) bool
	DeleteCompleted(state State) bool

	// Implemented is carried over from the original resource trait (see
	// SPEC_FULL.md §12): the decision graph never calls it, but it's kept so
	// resources ported from the original idiom still compile against this
	// framework.
	Implemented(state State) bool
}
