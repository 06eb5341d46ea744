package route

import (
	"testing"

	"github.com/kellymclaughlin/airship/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// namedResource lets tests tell which registered resource a lookup landed
// on without needing real callback behavior.
type namedResource struct {
	resource.Defaults
	name string
}

func TestLookupLiteral(t *testing.T) {
	widgets := namedResource{name: "widgets"}
	trie := Build(RoutingSpec{NewEntry("widgets", widgets)})

	result, ok := Lookup(trie, "/widgets")
	require.True(t, ok)
	assert.Equal(t, widgets, result.Resource)
	assert.Empty(t, result.Params)
}

func TestLookupLiteralNoMatch(t *testing.T) {
	trie := Build(RoutingSpec{NewEntry("widgets", namedResource{name: "widgets"})})

	_, ok := Lookup(trie, "/widgets/extra")
	assert.False(t, ok)

	_, ok = Lookup(trie, "/other")
	assert.False(t, ok)
}

func TestLookupVar(t *testing.T) {
	post := namedResource{name: "post"}
	trie := Build(RoutingSpec{NewEntry("blog </> ::year:: </> ::slug::", post)})

	result, ok := Lookup(trie, "/blog/2026/hello-world")
	require.True(t, ok)
	assert.Equal(t, post, result.Resource)
	assert.Equal(t, "2026", result.Params["year"])
	assert.Equal(t, "hello-world", result.Params["slug"])
}

// Scenario #7 from spec.md §8: a var route and a more specific literal
// route both cover "/blog/archive"; the literal registration wins.
func TestLookupLiteralBeatsVar(t *testing.T) {
	dated := namedResource{name: "dated"}
	archive := namedResource{name: "archive"}
	trie := Build(RoutingSpec{
		NewEntry("blog </> ::year:: </> ::slug::", dated),
		NewEntry("blog </> archive", archive),
	})

	result, ok := Lookup(trie, "/blog/archive")
	require.True(t, ok)
	assert.Equal(t, archive, result.Resource)
	assert.Empty(t, result.Params)
}

// Scenario #8 from spec.md §8: a wildcard route captures the remainder as
// a single dispatch segment, with no params.
func TestLookupWildcard(t *testing.T) {
	files := namedResource{name: "files"}
	trie := Build(RoutingSpec{NewEntry("files </> *", files)})

	result, ok := Lookup(trie, "/files/a/b/c")
	require.True(t, ok)
	assert.Equal(t, files, result.Resource)
	assert.Empty(t, result.Params)
	require.Len(t, result.Dispatch, 1)
	assert.Equal(t, "a/b/c", result.Dispatch[0])
}

func TestLookupWildcardWinsOnConflict(t *testing.T) {
	literal := namedResource{name: "literal"}
	wild := namedResource{name: "wild"}
	// Both templates fold to the same trie key ("/files"): "files" is a
	// terminal RouteMatch there, "files </> *" is a terminal Wildcard
	// there. Wildcards always win regardless of registration order.
	trie := Build(RoutingSpec{
		NewEntry("files", literal),
		NewEntry("files </> *", wild),
	})

	result, ok := Lookup(trie, "/files/anything")
	require.True(t, ok)
	assert.Equal(t, wild, result.Resource)
	require.Len(t, result.Dispatch, 1)
	assert.Equal(t, "anything", result.Dispatch[0])
}

func TestLookupIdempotent(t *testing.T) {
	trie := Build(RoutingSpec{NewEntry("blog </> ::slug::", namedResource{name: "post"})})

	first, ok1 := Lookup(trie, "/blog/hello")
	second, ok2 := Lookup(trie, "/blog/hello")
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestLookupDoubleSlashAfterVarFails(t *testing.T) {
	trie := Build(RoutingSpec{NewEntry("blog </> ::slug::", namedResource{name: "post"})})

	_, ok := Lookup(trie, "/blog//hello")
	assert.False(t, ok)
}
