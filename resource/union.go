package resource

import (
	"net/http"
	"time"
)

// Union provides the mechanical, reflection-free dispatch spec.md §9 calls
// out for an application that "enumerates its concrete resource variants as
// a single closed sum": Tag selects which of Variants is active, and every
// Callbacks method simply delegates to it. This is pure delegation (spec.md
// §1) standing in for the original source's proc-macro-generated
// per-variant forwarding, which Go's structural interfaces make unnecessary
// in the common case (see SPEC_FULL.md §12).
type Union struct {
	Tag      int
	Variants []Callbacks
}

// NewUnion builds a Union over variants, starting active on tag.
func NewUnion(tag int, variants ...Callbacks) *Union {
	return &Union{Tag: tag, Variants: variants}
}

func (u *Union) active() Callbacks {
	if u.Tag < 0 || u.Tag >= len(u.Variants) {
		return Defaults{}
	}
	return u.Variants[u.Tag]
}

func (u *Union) ServiceAvailable(s State) bool                  { return u.active().ServiceAvailable(s) }
func (u *Union) AllowedMethods(s State) []string                { return u.active().AllowedMethods(s) }
func (u *Union) URITooLong(s State, uri string) bool            { return u.active().URITooLong(s, uri) }
func (u *Union) MalformedRequest(s State, r *http.Request) bool { return u.active().MalformedRequest(s, r) }
func (u *Union) IsAuthorized(s State, r *http.Request) bool     { return u.active().IsAuthorized(s, r) }
func (u *Union) Forbidden(s State, r *http.Request) bool        { return u.active().Forbidden(s, r) }
func (u *Union) ValidContentHeaders(s State, r *http.Request) bool {
	return u.active().ValidContentHeaders(s, r)
}
func (u *Union) KnownContentType(s State, r *http.Request) bool {
	return u.active().KnownContentType(s, r)
}
func (u *Union) EntityTooLarge(s State, r *http.Request) bool {
	return u.active().EntityTooLarge(s, r)
}
func (u *Union) ContentTypesProvided(s State) []Provided { return u.active().ContentTypesProvided(s) }
func (u *Union) ContentTypesAccepted(s State) []Accepted { return u.active().ContentTypesAccepted(s) }
func (u *Union) PatchContentTypesAccepted(s State) []Accepted {
	return u.active().PatchContentTypesAccepted(s)
}
func (u *Union) LanguageAvailable(s State, acceptLanguage string) bool {
	return u.active().LanguageAvailable(s, acceptLanguage)
}
func (u *Union) ResourceExists(s State) bool    { return u.active().ResourceExists(s) }
func (u *Union) PreviouslyExisted(s State) bool { return u.active().PreviouslyExisted(s) }
func (u *Union) MovedPermanently(s State) (string, bool) { return u.active().MovedPermanently(s) }
func (u *Union) MovedTemporarily(s State) (string, bool) { return u.active().MovedTemporarily(s) }
func (u *Union) MultipleChoices(s State) bool            { return u.active().MultipleChoices(s) }
func (u *Union) LastModified(s State) (time.Time, bool)  { return u.active().LastModified(s) }
func (u *Union) GenerateETag(s State, r *http.Request) (string, bool) {
	return u.active().GenerateETag(s, r)
}
func (u *Union) IsConflict(s State) bool       { return u.active().IsConflict(s) }
func (u *Union) AllowMissingPost(s State) bool { return u.active().AllowMissingPost(s) }
func (u *Union) ProcessPost(s State, r *http.Request) PostResponse {
	return u.active().ProcessPost(s, r)
}
func (u *Union) DeleteResource(s State, r *http.Request) bool { return u.active().DeleteResource(s, r) }
func (u *Union) DeleteCompleted(s State) bool                 { return u.active().DeleteCompleted(s) }
func (u *Union) Implemented(s State) bool                     { return u.active().Implemented(s) }

var _ Callbacks = (*Union)(nil)
