package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kellymclaughlin/airship/resource"
	"github.com/kellymclaughlin/airship/route"
)

// echoResource reports the dispatch path and params a request's route
// resolved to, as a minimal demonstration resource for -route-file.
type echoResource struct {
	resource.Defaults
}

func (echoResource) ContentTypesProvided(resource.State) []resource.Provided {
	return []resource.Provided{{
		Type:    "text/plain",
		Produce: produceEcho,
	}}
}

func produceEcho(req *http.Request) ([]byte, error) {
	result, _ := route.ResultFromContext(req.Context())

	var b strings.Builder
	fmt.Fprintf(&b, "dispatch: %s\n", strings.Join(result.Dispatch, "/"))
	for k, v := range result.Params {
		fmt.Fprintf(&b, "param %s=%s\n", k, v)
	}
	return []byte(b.String()), nil
}
