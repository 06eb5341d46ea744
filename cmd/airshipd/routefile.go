package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kellymclaughlin/airship/resource"
	"github.com/kellymclaughlin/airship/route"
)

// loadRoutes reads a route definition file, one "template -> kind" pair per
// line, blank lines and lines starting with "#" ignored (config.RouteFile,
// SPEC_FULL §10.3). This example binary knows two kinds: "echo", which
// reports the dispatch path and params a request resolved to, and
// "secure-echo", the same thing behind an HS256 bearer-token check
// (bearerSecret, from -bearer-secret; with an empty secret, a line naming
// "secure-echo" makes loadRoutes return an error).
func loadRoutes(r io.Reader, bearerSecret string) (route.RoutingSpec, error) {
	var spec route.RoutingSpec

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		template, kind, ok := strings.Cut(line, "->")
		if !ok {
			return nil, fmt.Errorf("malformed route line %q, expected \"template -> kind\"", line)
		}
		template, kind = strings.TrimSpace(template), strings.TrimSpace(kind)

		res, err := buildResource(kind, bearerSecret)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", template, err)
		}

		spec = append(spec, route.NewEntry(template, res))
	}

	return spec, scanner.Err()
}

func buildResource(kind, bearerSecret string) (resource.Callbacks, error) {
	switch kind {
	case "echo":
		return echoResource{}, nil
	case "secure-echo":
		if bearerSecret == "" {
			return nil, fmt.Errorf("resource kind %q requires -bearer-secret", kind)
		}
		return newSecureEchoResource(bearerSecret), nil
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
}
