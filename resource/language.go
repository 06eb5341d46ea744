package resource

import "golang.org/x/text/language"

// LanguagesProvider is an optional interface a resource implements to get
// real BCP-47 Accept-Language matching at d05 instead of the conservative
// LanguageAvailable default (SPEC_FULL §11.6). Resources that don't declare
// any languages keep relying on Callbacks.LanguageAvailable directly.
type LanguagesProvider interface {
	LanguagesProvided() []language.Tag
}

// MatchLanguage parses acceptHeader with the BCP-47 rules in
// golang.org/x/text/language and reports whether any of provided satisfies
// it. An empty acceptHeader always matches, mirroring the "no header means
// no constraint" shape of every other d04/e05/f06 negotiation stub.
func MatchLanguage(acceptHeader string, provided []language.Tag) bool {
	if acceptHeader == "" || len(provided) == 0 {
		return true
	}

	tags, _, err := language.ParseAcceptLanguage(acceptHeader)
	if err != nil || len(tags) == 0 {
		return true
	}

	matcher := language.NewMatcher(provided)
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return false
	}
	_ = index
	return true
}
