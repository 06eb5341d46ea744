/*
Package auth provides a bearer-JWT helper resources can wire up as
IsAuthorized at decision node b08 (spec.md §4.5), without each resource
re-implementing token parsing.
*/
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// claimsKey is the PerRequestState cache key a BearerValidator stores the
// parsed token under, so a resource's other callbacks (e.g. Forbidden) can
// reuse it without re-parsing (SPEC_FULL §11.4).
type claimsKey struct{}

// state is the minimal slice of resource.State a BearerValidator needs; it
// mirrors resource.State structurally to avoid importing the resource
// package just for this.
type state interface {
	Value(key any) (any, bool)
	SetValue(key any, val any)
}

// KeyFunc resolves the signing key for a token, mirroring jwt.Keyfunc. Most
// callers return a fixed HMAC secret or RSA public key regardless of the
// token, but the full token is available for kid-based key rotation.
type KeyFunc func(*jwt.Token) (any, error)

// BearerValidator validates an HS256/RS256 bearer token from the
// Authorization header.
type BearerValidator struct {
	KeyFunc      KeyFunc
	ValidMethods []string
}

// NewHMACValidator builds a BearerValidator that verifies HS256 tokens
// against a fixed secret.
func NewHMACValidator(secret []byte) *BearerValidator {
	return &BearerValidator{
		KeyFunc:      func(*jwt.Token) (any, error) { return secret, nil },
		ValidMethods: []string{"HS256"},
	}
}

// NewRSAValidator builds a BearerValidator that verifies RS256 tokens
// against a fixed public key.
func NewRSAValidator(pub any) *BearerValidator {
	return &BearerValidator{
		KeyFunc:      func(*jwt.Token) (any, error) { return pub, nil },
		ValidMethods: []string{"RS256"},
	}
}

var errMissingBearer = errors.New("auth: missing or malformed bearer token")

func bearerToken(req *http.Request) (string, error) {
	header := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errMissingBearer
	}
	return strings.TrimSpace(header[len(prefix):]), nil
}

// parse parses and validates the bearer token, caching the resulting claims
// on st so a second callback in the same traversal gets them for free.
func (v *BearerValidator) parse(st state, req *http.Request) (jwt.MapClaims, bool) {
	if cached, ok := st.Value(claimsKey{}); ok {
		claims, ok := cached.(jwt.MapClaims)
		return claims, ok
	}

	raw, err := bearerToken(req)
	if err != nil {
		st.SetValue(claimsKey{}, jwt.MapClaims(nil))
		return nil, false
	}

	token, err := jwt.Parse(raw, v.KeyFunc, jwt.WithValidMethods(v.ValidMethods))
	if err != nil || !token.Valid {
		st.SetValue(claimsKey{}, jwt.MapClaims(nil))
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		st.SetValue(claimsKey{}, jwt.MapClaims(nil))
		return nil, false
	}

	st.SetValue(claimsKey{}, claims)
	return claims, true
}

// IsAuthorized reports whether req carries a valid bearer token. A
// resource.State satisfies st, so a resource's IsAuthorized can delegate
// to it:
//
//	func (r myResource) IsAuthorized(s resource.State, req *http.Request) bool {
//		return validator.IsAuthorized(s, req)
//	}
func (v *BearerValidator) IsAuthorized(st state, req *http.Request) bool {
	_, ok := v.parse(st, req)
	return ok
}

// Claims returns the claims of the token cached by a prior IsAuthorized call
// in the same traversal, parsing it if IsAuthorized hasn't run yet.
func (v *BearerValidator) Claims(st state, req *http.Request) (jwt.MapClaims, bool) {
	return v.parse(st, req)
}
