package main

import (
	"fmt"
	"net/http"

	"github.com/kellymclaughlin/airship/resource"
	"github.com/kellymclaughlin/airship/resource/auth"
)

// secureEchoResource is echoResource guarded by an HS256 bearer token at
// b08 (SPEC_FULL §11.4): the -bearer-secret flag supplies the shared
// secret, and IsAuthorized delegates to auth.BearerValidator so the parsed
// claims are cached on the traversal's state and reused if GenerateETag or
// another callback needs them.
type secureEchoResource struct {
	echoResource
	validator *auth.BearerValidator
}

func newSecureEchoResource(secret string) secureEchoResource {
	return secureEchoResource{validator: auth.NewHMACValidator([]byte(secret))}
}

func (r secureEchoResource) IsAuthorized(st resource.State, req *http.Request) bool {
	return r.validator.IsAuthorized(st, req)
}

func (r secureEchoResource) GenerateETag(st resource.State, req *http.Request) (string, bool) {
	claims, ok := r.validator.Claims(st, req)
	if !ok {
		return "", false
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", false
	}
	return fmt.Sprintf("%q", sub), true
}
