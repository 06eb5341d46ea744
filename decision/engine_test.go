package decision

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kellymclaughlin/airship/resource"
)

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

func TestTraverseDefaultResourceOK(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")

	resp := e.Traverse(req, resource.Defaults{})

	if resp.Status != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.Status)
	}
	if resp.Header.Get("Content-Type") != "text/plain" {
		t.Fatalf("got content type %q, want text/plain", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("X-Flow-Id") == "" {
		t.Fatal("expected a generated X-Flow-Id")
	}
}

func TestTraverseEchoesRequestID(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")
	req.Header.Set("X-Flow-Id", "abc-123")

	resp := e.Traverse(req, resource.Defaults{})

	if got := resp.Header.Get("X-Flow-Id"); got != "abc-123" {
		t.Fatalf("got X-Flow-Id %q, want abc-123", got)
	}
}

func TestTraverseTerminatesExactlyOnce(t *testing.T) {
	// Every traversal must pass through exactly one halting node; the
	// trace must therefore never contain the same terminal label twice
	// and Traverse must always return.
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")
	st := New(time.Now())
	_ = st

	resp := e.Traverse(req, resource.Defaults{})
	if resp.Status == 0 {
		t.Fatal("expected a non-zero status from a terminated traversal")
	}

	labels := strings.Split(resp.Header.Get("Airship-Trace"), ",")
	terminal := labels[len(labels)-1]
	if terminal != "o18" {
		t.Fatalf("got terminal node %q, want o18", terminal)
	}
	if n := strings.Count(","+resp.Header.Get("Airship-Trace")+",", ","+terminal+","); n != 1 {
		t.Fatalf("terminal node %q appears %d times in the trace, want 1", terminal, n)
	}
}

type unavailableResource struct {
	resource.Defaults
}

func (unavailableResource) ServiceAvailable(resource.State) bool { return false }

func TestTraverseServiceUnavailable(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")

	resp := e.Traverse(req, unavailableResource{})

	if resp.Status != http.StatusServiceUnavailable {
		t.Fatalf("got status %d, want 503", resp.Status)
	}
}

type getOnlyResource struct {
	resource.Defaults
}

func (getOnlyResource) AllowedMethods(resource.State) []string {
	return []string{http.MethodGet}
}

func TestTraverseMethodNotAllowedSetsAllowHeader(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodDelete, "/")

	resp := e.Traverse(req, getOnlyResource{})

	if resp.Status != http.StatusMethodNotAllowed {
		t.Fatalf("got status %d, want 405", resp.Status)
	}
	if resp.Header.Get("Allow") != "GET" {
		t.Fatalf("got Allow %q, want GET", resp.Header.Get("Allow"))
	}
}

type unauthorizedResource struct {
	resource.Defaults
}

func (unauthorizedResource) IsAuthorized(resource.State, *http.Request) bool { return false }

func TestTraverseUnauthorized(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")

	resp := e.Traverse(req, unauthorizedResource{})

	if resp.Status != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", resp.Status)
	}
}

type jsonOnlyResource struct {
	resource.Defaults
}

func (jsonOnlyResource) ContentTypesProvided(resource.State) []resource.Provided {
	return []resource.Provided{{
		Type:    "application/json",
		Produce: func(*http.Request) ([]byte, error) { return []byte(`{}`), nil },
	}}
}

func TestTraverseAcceptNotAcceptable(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")
	req.Header.Set("Accept", "text/plain")

	resp := e.Traverse(req, jsonOnlyResource{})

	if resp.Status != http.StatusNotAcceptable {
		t.Fatalf("got status %d, want 406", resp.Status)
	}
}

func TestTraverseAcceptSatisfiable(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")
	req.Header.Set("Accept", "application/json")

	resp := e.Traverse(req, jsonOnlyResource{})

	if resp.Status != http.StatusOK {
		t.Fatalf("got status %d, want 200", resp.Status)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("got content type %q, want application/json", resp.Header.Get("Content-Type"))
	}
}

func TestTraverseOptionsSetsAllowAndNoContent(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodOptions, "/")

	resp := e.Traverse(req, resource.Defaults{})

	if resp.Status != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", resp.Status)
	}
	if resp.Header.Get("Allow") == "" {
		t.Fatal("expected an Allow header on OPTIONS")
	}
}

type missingResource struct {
	resource.Defaults
}

func (missingResource) ResourceExists(resource.State) bool { return false }

func TestTraverseMissingResourceNotFound(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/missing")

	resp := e.Traverse(req, missingResource{})

	if resp.Status != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", resp.Status)
	}
}

type movedResource struct {
	resource.Defaults
}

func (movedResource) ResourceExists(resource.State) bool { return false }
func (movedResource) PreviouslyExisted(resource.State) bool { return true }
func (movedResource) MovedPermanently(resource.State) (string, bool) {
	return "/new-location", true
}

func TestTraverseMovedPermanently(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/old")

	resp := e.Traverse(req, movedResource{})

	if resp.Status != http.StatusMovedPermanently {
		t.Fatalf("got status %d, want 301", resp.Status)
	}
	if resp.Header.Get("Location") != "/new-location" {
		t.Fatalf("got Location %q, want /new-location", resp.Header.Get("Location"))
	}
}

func TestTraverseAllHaltsCarryHeaderTriplet(t *testing.T) {
	e := NewEngine("airship/test")
	req := newRequest(http.MethodGet, "/")

	resp := e.Traverse(req, unavailableResource{})

	if resp.Header.Get("Server") == "" {
		t.Error("expected Server header on every final response")
	}
	if resp.Header.Get("Airship-Trace") == "" {
		t.Error("expected Airship-Trace header on every final response")
	}
	if resp.Header.Get("Airship-Quip") == "" {
		t.Error("expected Airship-Quip header on every final response")
	}
}
