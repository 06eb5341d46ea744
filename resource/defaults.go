package resource

import (
	"net/http"
	"time"
)

// Defaults implements Callbacks with the conservative defaults spec.md §4.5
// documents inline for each callback. Embed it in a concrete resource type
// and override only the methods that differ; the zero value is a fully
// functional GET/HEAD/OPTIONS resource serving "text/plain".
type Defaults struct{}

func (Defaults) ServiceAvailable(State) bool { return true }

func (Defaults) AllowedMethods(State) []string {
	return []string{http.MethodGet, http.MethodHead, http.MethodOptions}
}

func (Defaults) URITooLong(State, string) bool                  { return false }
func (Defaults) MalformedRequest(State, *http.Request) bool      { return false }
func (Defaults) IsAuthorized(State, *http.Request) bool          { return true }
func (Defaults) Forbidden(State, *http.Request) bool             { return false }
func (Defaults) ValidContentHeaders(State, *http.Request) bool   { return true }
func (Defaults) KnownContentType(State, *http.Request) bool      { return true }
func (Defaults) EntityTooLarge(State, *http.Request) bool        { return false }

func (Defaults) ContentTypesProvided(State) []Provided {
	return []Provided{{
		Type:    "text/plain",
		Produce: func(*http.Request) ([]byte, error) { return nil, nil },
	}}
}

func (Defaults) ContentTypesAccepted(State) []Accepted      { return nil }
func (Defaults) PatchContentTypesAccepted(State) []Accepted { return nil }

// LanguageAvailable is the fallback used at d05 for a resource that doesn't
// declare LanguagesProvider; real BCP-47 matching against a declared
// LanguagesProvided() happens in decision.Engine before this default is
// ever reached (SPEC_FULL §11.6).
func (Defaults) LanguageAvailable(State, string) bool { return true }

func (Defaults) ResourceExists(State) bool                       { return true }
func (Defaults) PreviouslyExisted(State) bool                    { return false }
func (Defaults) MovedPermanently(State) (string, bool)           { return "", false }
func (Defaults) MovedTemporarily(State) (string, bool)           { return "", false }
func (Defaults) MultipleChoices(State) bool                      { return false }

func (Defaults) LastModified(State) (time.Time, bool)               { return time.Time{}, false }
func (Defaults) GenerateETag(State, *http.Request) (string, bool)   { return "", false }

func (Defaults) IsConflict(State) bool           { return false }
func (Defaults) AllowMissingPost(State) bool      { return false }
func (Defaults) ProcessPost(State, *http.Request) PostResponse {
	return PostProcess(nil)
}
func (Defaults) DeleteResource(State, *http.Request) bool { return false }
func (Defaults) DeleteCompleted(State) bool                { return false }

func (Defaults) Implemented(State) bool { return true }

var _ Callbacks = Defaults{}
