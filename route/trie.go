package route

import (
	"encoding/base64"

	"github.com/kellymclaughlin/airship/resource"
)

// Entry pairs a route template (or a programmatically built Route) with the
// resource it maps to; RoutingSpec is an ordered sequence of these.
type Entry struct {
	Route    Route
	Resource resource.Callbacks
}

// NewEntry parses template with Parse and pairs it with res.
func NewEntry(template string, res resource.Callbacks) Entry {
	return Entry{Route: Parse(template), Resource: res}
}

// RoutingSpec is the ordered list of (route, resource) pairs an application
// supplies; order is meaningful (spec.md §3): the first registered mapping
// wins on conflicts, subject to the merge rules in spec.md §4.1.
type RoutingSpec []Entry

// RoutingTrie is a radix-style trie keyed by a canonicalized byte string,
// built once at server start and safe for concurrent readers thereafter
// (spec.md §5).
type RoutingTrie struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	leaf     *Leaf
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode)}
}

func (n *trieNode) insert(key string, leaf *Leaf) {
	cur := n
	for i := 0; i < len(key); i++ {
		c := key[i]
		next, ok := cur.children[c]
		if !ok {
			next = newTrieNode()
			cur.children[c] = next
		}
		cur = next
	}
	cur.leaf = leaf
}

// prefixMatch finds the longest key registered in the trie that is a prefix
// of query, mirroring the radix_trie crate's prefix_match used by the
// original source.
func (n *trieNode) prefixMatch(query string) (matched string, leaf *Leaf, rest string, ok bool) {
	cur := n
	lastLen := -1
	var lastLeaf *Leaf

	for i := 0; ; i++ {
		if cur.leaf != nil {
			lastLen = i
			lastLeaf = cur.leaf
		}
		if i == len(query) {
			break
		}
		next, exists := cur.children[query[i]]
		if !exists {
			break
		}
		cur = next
	}

	if lastLen < 0 {
		return "", nil, "", false
	}

	return query[:lastLen], lastLeaf, query[lastLen:], true
}

// base64Key matches the key-derivation rule in spec.md §4.1: the base64
// encoding of (prior_key || "var"), used as the running key once a Var
// segment is encountered so variable positions never collide across routes
// with different static prefixes.
func base64Key(priorKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(priorKey + "var"))
}

// Build compiles spec into a RoutingTrie, folding each route's segments
// into trie keys per spec.md §4.1 and applying the merge policy when two
// routes produce the same key.
func Build(spec RoutingSpec) *RoutingTrie {
	leaves := make(map[string]*Leaf)
	order := make([]string, 0)

	for _, entry := range spec {
		for _, kv := range routeLeaves(entry.Route, entry.Resource) {
			if old, exists := leaves[kv.key]; exists {
				leaves[kv.key] = mergeLeaf(old, kv.leaf)
			} else {
				leaves[kv.key] = kv.leaf
				order = append(order, kv.key)
			}
		}
	}

	root := newTrieNode()
	for _, key := range order {
		root.insert(key, leaves[key])
	}

	return &RoutingTrie{root: root}
}

type leafKV struct {
	key  string
	leaf *Leaf
}

// routeLeaves folds route's segments into the (key, leaf) pairs spec.md
// §4.1 describes: Bound segments extend the running key; a Var segment
// emits an RVar at the current key and advances the running key to its
// base64 encoding; RestUnbound stops the walk and produces a Wildcard leaf.
func routeLeaves(r Route, res resource.Callbacks) []leafKV {
	var leaves []leafKV
	key := ""
	var varNames []string
	wild := false

	for _, seg := range r {
		if wild {
			break
		}
		switch seg.Kind {
		case Bound:
			key = key + "/" + seg.Literal
		case Var:
			leaves = append(leaves, leafKV{key, &Leaf{Kind: RVar}})
			key = base64Key(key)
			varNames = append(varNames, seg.Name)
		case Rest:
			wild = true
		}
	}

	finalKey := key
	if finalKey == "" {
		finalKey = "/"
	}

	var finalLeaf *Leaf
	if wild {
		finalLeaf = &Leaf{Kind: Wildcard, Resource: res, Route: r}
	} else {
		finalLeaf = &Leaf{Kind: RouteMatch, Resource: res, Route: r, VarNames: varNames}
	}

	return append(leaves, leafKV{finalKey, finalLeaf})
}
