package route

import (
	"strings"

	"github.com/kellymclaughlin/airship/resource"
)

// Result is what a successful Lookup returns: the matched resource, the
// named path parameters, and the dispatch path (spec.md §3).
type Result struct {
	Resource resource.Callbacks
	Route    Route
	Params   map[string]string
	Dispatch []string
}

// Lookup performs the trie's longest-prefix match against path and then
// runs the tail recursion described in spec.md §4.1 over the kind of leaf
// found.
func Lookup(trie *RoutingTrie, path string) (Result, bool) {
	return match(trie.root, path, nil, nil)
}

func match(root *trieNode, key string, params []string, dispatch *string) (Result, bool) {
	matched, leaf, rest, ok := root.prefixMatch(key)
	if !ok {
		return Result{}, false
	}

	switch leaf.Kind {
	case RouteMatchOrVar:
		if rest == "" {
			return buildResult(leaf, params, dispatch, matched), true
		}
		// spec.md §4.1: "RouteMatchOrVar with nonzero remainder -> treat
		// as RVar." The original source's own match_route has a dead
		// comment describing this and returns None instead (see
		// DESIGN.md); spec.md governs here.
		return continueAsVar(root, matched, rest, params, dispatch)

	case RouteMatch:
		if rest == "" {
			return buildResult(leaf, params, dispatch, matched), true
		}
		return Result{}, false

	case RVar:
		if rest == "" {
			return Result{}, false
		}
		if strings.HasPrefix(rest, "//") {
			return Result{}, false
		}
		if strings.HasPrefix(rest, "/") {
			return continueAsVar(root, matched, rest, params, dispatch)
		}
		return Result{}, false

	case Wildcard:
		trimmed := strings.TrimPrefix(rest, "/")
		return Result{
			Resource: leaf.Resource,
			Route:    leaf.Route,
			Params:   map[string]string{},
			Dispatch: []string{trimmed},
		}, true

	default:
		return Result{}, false
	}
}

func continueAsVar(root *trieNode, matched, rest string, params []string, dispatch *string) (Result, bool) {
	trimmedRest := strings.TrimPrefix(rest, "/")

	idx := strings.IndexByte(trimmedRest, '/')
	var paramVal, remainder string
	if idx < 0 {
		paramVal, remainder = trimmedRest, ""
	} else {
		paramVal, remainder = trimmedRest[:idx], trimmedRest[idx:]
	}

	nextKey := base64Key(matched) + remainder
	params = append(params, paramVal)

	if dispatch == nil {
		empty := ""
		dispatch = &empty
	}

	return match(root, nextKey, params, dispatch)
}

func buildResult(leaf *Leaf, params []string, dispatch *string, matched string) Result {
	paramsMap := make(map[string]string, len(leaf.VarNames))
	for i, name := range leaf.VarNames {
		if i < len(params) {
			paramsMap[name] = params[i]
		}
	}

	accum := ""
	if dispatch != nil {
		accum = *dispatch
	}

	return Result{
		Resource: leaf.Resource,
		Route:    leaf.Route,
		Params:   paramsMap,
		Dispatch: strings.Split(accum+matched, "/"),
	}
}
