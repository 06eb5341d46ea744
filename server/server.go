/*
Package server wires a RoutingTrie and a decision.Engine into a plain
net/http.Handler: look up the resource for a request, run the traversal, and
copy the result onto the wire, with the ambient concerns (access logging,
metrics, compression) layered on as SPEC_FULL §10-11 describe.
*/
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/kellymclaughlin/airship/decision"
	"github.com/kellymclaughlin/airship/logging"
	"github.com/kellymclaughlin/airship/route"
)

// MetricsRecorder is the slice of metrics.Prometheus the server shim itself
// needs, distinct from decision.MetricsRecorder because the shim also
// counts routing failures and measures lookup time.
type MetricsRecorder interface {
	IncRoutingFailures()
	MeasureRouteLookup(start time.Time)
}

// Server adapts a RoutingTrie and an Engine to http.Handler.
type Server struct {
	Trie   *route.RoutingTrie
	Engine *decision.Engine

	Metrics MetricsRecorder

	// StaticHeaders are added to every traversal's response after it
	// finishes, only for header names the traversal left unset, so a
	// resource callback may still override them (config.Headers,
	// SPEC_FULL §10.3's -header flag).
	StaticHeaders http.Header

	// NoCompress disables gzip response compression regardless of the
	// request's Accept-Encoding (SPEC_FULL §11.5).
	NoCompress bool
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	lw := logging.NewLoggingWriter(w)

	start := time.Now()
	result, ok := route.Lookup(s.Trie, req.URL.Path)
	if s.Metrics != nil {
		s.Metrics.MeasureRouteLookup(start)
	}
	if !ok {
		if s.Metrics != nil {
			s.Metrics.IncRoutingFailures()
		}
		http.NotFound(lw, req)
		s.logAccess(lw, req, start, "", req.Header.Get("X-Flow-Id"))
		return
	}

	req = route.WithResult(req, result)

	traversalStart := time.Now()
	resp := s.Engine.Traverse(req, result.Resource)

	for k, vs := range s.StaticHeaders {
		for _, v := range vs {
			if resp.Header.Get(k) == "" {
				resp.Header.Add(k, v)
			}
		}
	}

	writeResponse(lw, req, resp, s.NoCompress)
	s.logAccess(lw, req, traversalStart, resp.Header.Get("Airship-Trace"), resp.Header.Get("X-Flow-Id"))
}

// logAccess records one access log entry. After a traversal, ServeHTTP
// passes the response's X-Flow-Id as requestID rather than the inbound
// request's, since the engine generates one (SPEC_FULL §10.4) when the
// request arrives without an X-Flow-Id of its own; for a routing failure it
// passes the inbound header.
func (s *Server) logAccess(lw *logging.LoggingWriter, req *http.Request, start time.Time, trace, requestID string) {
	logging.LogAccess(&logging.AccessEntry{
		Request:       req,
		ResponseSize:  lw.Bytes(),
		StatusCode:    lw.GetCode(),
		RequestTime:   start,
		Duration:      time.Since(start),
		DecisionTrace: trace,
		RequestID:     requestID,
	}, nil)
}

// writeResponse copies resp onto w, gzip-compressing the body when the
// request allows it, compression isn't disabled, and the content type is
// textual (SPEC_FULL §11.5).
func writeResponse(w http.ResponseWriter, req *http.Request, resp decision.Response, noCompress bool) {
	header := w.Header()
	for k, vs := range resp.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	if !noCompress && shouldCompress(req, resp.Header.Get("Content-Type")) && len(resp.Body) > 0 {
		header.Set("Content-Encoding", "gzip")
		header.Del("Content-Length")
		w.WriteHeader(resp.Status)

		gz := gzip.NewWriter(w)
		_, _ = gz.Write(resp.Body)
		_ = gz.Close()
		return
	}

	w.WriteHeader(resp.Status)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

func shouldCompress(req *http.Request, contentType string) bool {
	if !strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
		return false
	}
	return strings.HasPrefix(contentType, "text/") ||
		strings.HasPrefix(contentType, "application/json") ||
		strings.HasPrefix(contentType, "application/xml")
}
