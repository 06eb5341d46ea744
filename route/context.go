package route

import (
	"context"
	"net/http"
)

type resultKey struct{}

// WithResult attaches a Lookup result to req's context so a resource's
// callbacks can recover the matched route's params and dispatch path
// without the decision engine needing to know about routing at all.
func WithResult(req *http.Request, result Result) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), resultKey{}, result))
}

// ResultFromContext recovers the Result WithResult attached, if any.
func ResultFromContext(ctx context.Context) (Result, bool) {
	result, ok := ctx.Value(resultKey{}).(Result)
	return result, ok
}
