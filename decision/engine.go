package decision

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kellymclaughlin/airship/circuit"
	"github.com/kellymclaughlin/airship/ratelimit"
	"github.com/kellymclaughlin/airship/resource"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MetricsRecorder is the narrow slice of metrics.Prometheus the engine
// needs; accepting the interface here instead of the concrete type keeps
// this package decoupled from the metrics package (SPEC_FULL §10.2).
type MetricsRecorder interface {
	IncNode(label string)
	IncStatusCode(code int)
	MeasureBodyProducer(mime string, start time.Time)
	MeasureTraversal(start time.Time)
}

// Engine traverses the decision graph for one request against one resource.
// The zero value is usable; Breakers, RateLimits, Metrics and Tracer are all
// optional and nil-safe.
type Engine struct {
	// ServerID is the value written to the Server header on every final
	// response (SPEC_FULL §12.4), e.g. "airship/v1.2.3" or "airship/dev".
	ServerID string

	Breakers   *circuit.Registry
	RateLimits *ratelimit.Registry
	Metrics    MetricsRecorder
	Tracer     trace.Tracer
}

// NewEngine builds an Engine whose Server header value is serverID, with a
// default tracer named "airship/decision" (the global no-op tracer when no
// TracerProvider has been installed via tracing.Init).
func NewEngine(serverID string) *Engine {
	return &Engine{ServerID: serverID, Tracer: otel.Tracer("airship/decision")}
}

var errCircuitOpen = errors.New("decision: circuit open")

var allowedHTTPMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodHead, http.MethodPut,
	http.MethodDelete, http.MethodTrace, http.MethodConnect,
	http.MethodOptions, http.MethodPatch,
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func resourceName(res resource.Callbacks) string {
	if n, ok := res.(resource.Named); ok {
		return n.ResourceName()
	}
	return ""
}

func (e *Engine) breakerFor(name string) *circuit.Breaker {
	if e.Breakers == nil || name == "" {
		return nil
	}
	return e.Breakers.Get(circuit.BreakerSettings{Resource: name})
}

// guardProduce wraps a body producer call (o18) in the circuit breaker for
// the resource, if one applies (SPEC_FULL §11.1).
func (e *Engine) guardProduce(name string, fn func() ([]byte, error)) ([]byte, error) {
	b := e.breakerFor(name)
	if b == nil {
		return fn()
	}
	done, allowed := b.Allow()
	if !allowed {
		return nil, errCircuitOpen
	}
	body, err := fn()
	done(err == nil)
	return body, err
}

// guardAction wraps a POST/PUT/PATCH action closure (n11/o14/o17/p03) the
// same way guardProduce wraps a body producer.
func (e *Engine) guardAction(name string, fn func() error) error {
	b := e.breakerFor(name)
	if b == nil {
		return fn()
	}
	done, allowed := b.Allow()
	if !allowed {
		return errCircuitOpen
	}
	err := fn()
	done(err == nil)
	return err
}

func (e *Engine) rateLimited(res resource.Callbacks) bool {
	if rl, ok := res.(resource.RateLimited); ok {
		if lim := rl.RateLimit(); lim != nil {
			return !lim.Allow()
		}
		return false
	}
	if name := resourceName(res); e.RateLimits != nil && name != "" {
		return !e.RateLimits.Allow(name)
	}
	return false
}

// languageAvailable implements d05: a resource that declares its languages
// via resource.LanguagesProvider gets real BCP-47 Accept-Language matching
// (resource.MatchLanguage) instead of ever reaching LanguageAvailable's
// conservative default (SPEC_FULL §11.6).
func (e *Engine) languageAvailable(res resource.Callbacks, st *State, acceptLanguage string) bool {
	if lp, ok := res.(resource.LanguagesProvider); ok {
		return resource.MatchLanguage(acceptLanguage, lp.LanguagesProvided())
	}
	return res.LanguageAvailable(st, acceptLanguage)
}

// Traverse runs the decision graph for req against res, returning the final
// Response. Entry point is b13 (spec.md §4.2).
func (e *Engine) Traverse(req *http.Request, res resource.Callbacks) Response {
	start := time.Now()
	st := New(start)

	requestID := req.Header.Get("X-Flow-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	st.SetRequestID(requestID)

	ctx := req.Context()
	var span trace.Span
	if e.Tracer != nil {
		ctx, span = e.Tracer.Start(ctx, "b13")
		defer span.End()
		span.SetAttributes(attribute.String("airship.request_id", requestID))
		req = req.WithContext(ctx)
	}

	node := "b13"
	for node != "" {
		st.trackNode(node)
		if e.Metrics != nil {
			e.Metrics.IncNode(node)
		}
		if span != nil {
			span.AddEvent(node)
		}
		node = e.step(node, res, req, st)
	}

	if span != nil {
		span.SetAttributes(attribute.Int("airship.status_code", st.status))
	}
	if e.Metrics != nil {
		e.Metrics.IncStatusCode(st.status)
		e.Metrics.MeasureTraversal(start)
	}

	st.setHeader("X-Flow-Id", requestID)
	return st.response()
}

// halt finalizes st with status, always attaching the standard header
// triplet (spec.md §4.2's "termination discipline").
func (e *Engine) halt(st *State, status int) string {
	serverID := e.ServerID
	if serverID == "" {
		serverID = "airship/dev"
	}
	st.finalize(status, serverID, true)
	return ""
}

// step executes exactly one node and returns the next node's label, or ""
// if it halted.
func (e *Engine) step(node string, res resource.Callbacks, req *http.Request, st *State) string {
	switch node {

	// --- b: transport-level admission -------------------------------
	case "b13":
		if e.rateLimited(res) || !res.ServiceAvailable(st) {
			return e.halt(st, http.StatusServiceUnavailable)
		}
		return "b12"
	case "b12":
		if !containsString(allowedHTTPMethods, req.Method) {
			return e.halt(st, http.StatusNotImplemented)
		}
		return "b11"
	case "b11":
		if res.URITooLong(st, req.URL.Path) {
			return e.halt(st, http.StatusRequestURITooLong)
		}
		return "b10"
	case "b10":
		allowed := res.AllowedMethods(st)
		if !containsString(allowed, req.Method) {
			st.setHeader("Allow", strings.Join(allowed, ", "))
			return e.halt(st, http.StatusMethodNotAllowed)
		}
		return "b09"
	case "b09":
		if res.MalformedRequest(st, req) {
			return e.halt(st, http.StatusBadRequest)
		}
		return "b08"
	case "b08":
		if !res.IsAuthorized(st, req) {
			return e.halt(st, http.StatusUnauthorized)
		}
		return "b07"
	case "b07":
		if res.Forbidden(st, req) {
			return e.halt(st, http.StatusForbidden)
		}
		return "b06"
	case "b06":
		if !res.ValidContentHeaders(st, req) {
			return e.halt(st, http.StatusNotImplemented)
		}
		return "b05"
	case "b05":
		if !res.KnownContentType(st, req) {
			return e.halt(st, http.StatusUnsupportedMediaType)
		}
		return "b04"
	case "b04":
		if res.EntityTooLarge(st, req) {
			return e.halt(st, http.StatusRequestEntityTooLarge)
		}
		return "b03"
	case "b03":
		if req.Method == http.MethodOptions {
			st.setHeader("Allow", strings.Join(res.AllowedMethods(st), ", "))
			return e.halt(st, http.StatusNoContent)
		}
		return "c03"

	// --- c/d/e/f: content, language, charset, encoding negotiation --
	case "c03":
		if req.Header.Get("Accept") == "" {
			return "d04"
		}
		return "c04"
	case "c04":
		provided := res.ContentTypesProvided(st)
		match, ok := NegotiateAccept(req.Header.Get("Accept"), provided)
		if !ok {
			return e.halt(st, http.StatusNotAcceptable)
		}
		st.SetMatchedContentType(match)
		return "d04"
	case "d04":
		if req.Header.Get("Accept-Language") == "" {
			return "e05"
		}
		return "d05"
	case "d05":
		if !e.languageAvailable(res, st, req.Header.Get("Accept-Language")) {
			return e.halt(st, http.StatusNotAcceptable)
		}
		return "e05"
	case "e05":
		if req.Header.Get("Accept-Charset") == "" {
			return "f06"
		}
		return "e06"
	case "e06":
		return "f06"
	case "f06":
		if req.Header.Get("Accept-Encoding") == "" {
			return "g07"
		}
		return "f07"
	case "f07":
		// spec.md §9: the source's f07 tail-calls f06 re-inspecting the
		// same header; treated as a pure pass-through to g07 here.
		return "g07"

	// --- g/h: existence and precondition checks ----------------------
	case "g07":
		if res.ResourceExists(st) {
			return "g08"
		}
		return "h07"
	case "g08":
		if req.Header.Get("If-Match") == "" {
			return "h10"
		}
		return "g09"
	case "g09":
		if req.Header.Get("If-Match") == "*" {
			return "h10"
		}
		return "g11"
	case "g11":
		if etagListEmpty(req.Header.Get("If-Match")) {
			return e.halt(st, http.StatusPreconditionFailed)
		}
		return "h10"
	case "h07":
		if req.Header.Get("If-Match") == "*" {
			return e.halt(st, http.StatusPreconditionFailed)
		}
		return "i07"
	case "h10":
		if req.Header.Get("If-Unmodified-Since") == "" {
			return "i12"
		}
		return "h11"
	case "h11":
		// spec.md §9: malformed dates are treated as valid (option b).
		return "h12"
	case "h12":
		t, ok := res.LastModified(st)
		if ok {
			ifUnmod, parseOK := http.ParseTime(req.Header.Get("If-Unmodified-Since"))
			if parseOK && t.After(ifUnmod) {
				return e.halt(st, http.StatusPreconditionFailed)
			}
		}
		return "i12"

	// --- i/j/k: PUT / moved / existence branch -----------------------
	case "i07":
		if req.Method == http.MethodPut {
			return "i04"
		}
		return "k07"
	case "i04":
		if loc, ok := res.MovedPermanently(st); ok {
			st.setHeader("Location", loc)
			return e.halt(st, http.StatusMovedPermanently)
		}
		return "p03"
	case "i12":
		if req.Header.Get("If-None-Match") == "" {
			return "l13"
		}
		return "i13"
	case "i13":
		if req.Header.Get("If-None-Match") == "*" {
			return "j18"
		}
		return "k13"
	case "j18":
		if req.Method == http.MethodGet || req.Method == http.MethodHead {
			return e.halt(st, http.StatusNotModified)
		}
		return e.halt(st, http.StatusPreconditionFailed)
	case "k13":
		if etagListEmpty(req.Header.Get("If-None-Match")) {
			return "l13"
		}
		return "j18"
	case "k07":
		if res.PreviouslyExisted(st) {
			return "k05"
		}
		return "l07"
	case "k05":
		if loc, ok := res.MovedPermanently(st); ok {
			st.setHeader("Location", loc)
			return e.halt(st, http.StatusMovedPermanently)
		}
		return "l05"
	case "l05":
		if loc, ok := res.MovedTemporarily(st); ok {
			st.setHeader("Location", loc)
			return e.halt(st, http.StatusTemporaryRedirect)
		}
		return "m05"
	case "l07":
		if req.Method == http.MethodPost {
			return "m07"
		}
		return e.halt(st, http.StatusNotFound)

	// --- l: If-Modified-Since ----------------------------------------
	case "l13":
		if req.Header.Get("If-Modified-Since") == "" {
			return "m16"
		}
		return "l14"
	case "l14":
		if _, ok := http.ParseTime(req.Header.Get("If-Modified-Since")); !ok {
			return "m16"
		}
		return "l15"
	case "l15":
		ifMod, _ := http.ParseTime(req.Header.Get("If-Modified-Since"))
		if ifMod.After(st.requestTime) {
			return "m16"
		}
		return "l17"
	case "l17":
		t, ok := res.LastModified(st)
		if ok {
			ifMod, _ := http.ParseTime(req.Header.Get("If-Modified-Since"))
			if t.After(ifMod) {
				return "m16"
			}
		}
		return e.halt(st, http.StatusNotModified)

	// --- m: method dispatch after existence resolved ------------------
	case "m05":
		if req.Method == http.MethodPost {
			return "n05"
		}
		return e.halt(st, http.StatusGone)
	case "m07":
		if res.AllowMissingPost(st) {
			return "n11"
		}
		return e.halt(st, http.StatusNotFound)
	case "m16":
		if req.Method == http.MethodDelete {
			return "m20"
		}
		return "n16"
	case "m20":
		ok, completed := res.DeleteResource(st, req), false
		if ok {
			completed = res.DeleteCompleted(st)
		}
		switch {
		case ok && completed:
			return "o20"
		case ok && !completed:
			return e.halt(st, http.StatusAccepted)
		default:
			return e.halt(st, http.StatusInternalServerError)
		}
	case "n05":
		if res.AllowMissingPost(st) {
			return "n11"
		}
		return e.halt(st, http.StatusGone)
	case "n11":
		return e.dispatchPost(res, req, st)
	case "n16":
		if req.Method == http.MethodPost {
			return "n11"
		}
		return "o16"

	// --- o/p: content negotiation for writes and final render ---------
	case "o14":
		if res.IsConflict(st) {
			return e.halt(st, http.StatusConflict)
		}
		return e.negotiateAndRun(res, req, st, res.ContentTypesAccepted(st), "p11")
	case "o16":
		if req.Method == http.MethodPut {
			return "o14"
		}
		return "o17"
	case "o17":
		if req.Method == http.MethodPatch {
			return e.negotiateAndRun(res, req, st, res.PatchContentTypesAccepted(st), "o20")
		}
		return "o18"
	case "o18":
		return e.render(res, req, st)
	case "o20":
		if st.IsBodyEmpty() {
			return e.halt(st, http.StatusCreated)
		}
		return "o18"
	case "p03":
		if res.IsConflict(st) {
			return e.halt(st, http.StatusConflict)
		}
		return e.negotiateAndRun(res, req, st, res.ContentTypesAccepted(st), "p11")
	case "p11":
		if st.hasHeader("Location") {
			return e.halt(st, http.StatusCreated)
		}
		return "o20"

	default:
		return e.halt(st, http.StatusInternalServerError)
	}
}

// etagListEmpty reports whether a comma-separated If-Match/If-None-Match
// header, once the "*" special case is ruled out by the caller, names no
// entity tags at all.
func etagListEmpty(header string) bool {
	return strings.TrimSpace(header) == ""
}

// negotiateAndRun implements the "negotiate content_types_accepted against
// request Content-Type, run action on match" half of o14/o17/p03 (spec.md
// §4.2) shared across the three nodes that only differ in where they go
// next.
func (e *Engine) negotiateAndRun(res resource.Callbacks, req *http.Request, st *State, accepted []resource.Accepted, onSuccess string) string {
	match, ok := resource.MatchAccepted(req.Header.Get("Content-Type"), accepted)
	if !ok {
		return e.halt(st, http.StatusUnsupportedMediaType)
	}

	err := e.guardAction(resourceName(res), func() error { return match.Action(req) })
	if err != nil {
		return e.haltForActionError(st, err)
	}
	return onSuccess
}

func (e *Engine) haltForActionError(st *State, err error) string {
	if errors.Is(err, errCircuitOpen) {
		st.setHeader("Airship-Quip", "circuit open")
		return e.halt(st, http.StatusServiceUnavailable)
	}
	return e.halt(st, http.StatusInternalServerError)
}

// dispatchPost implements §4.4: process_post's four-way tagged union.
func (e *Engine) dispatchPost(res resource.Callbacks, req *http.Request, st *State) string {
	name := resourceName(res)
	var result resource.PostResponse
	err := e.guardAction(name, func() error {
		result = res.ProcessPost(st, req)
		return nil
	})
	if err != nil {
		return e.haltForActionError(st, err)
	}

	switch {
	case result.IsCreate():
		st.setHeader("Location", req.URL.Path+","+strings.Join(result.Segments(), ","))
		return e.negotiateAndRun(res, req, st, res.ContentTypesAccepted(st), "p11")

	case result.IsCreateRedirect():
		st.setHeader("Location", req.URL.Path+","+strings.Join(result.Segments(), ","))
		match, ok := resource.MatchAccepted(req.Header.Get("Content-Type"), res.ContentTypesAccepted(st))
		if !ok {
			return e.halt(st, http.StatusUnsupportedMediaType)
		}
		if err := e.guardAction(name, func() error { return match.Action(req) }); err != nil {
			return e.haltForActionError(st, err)
		}
		return e.halt(st, http.StatusSeeOther)

	case result.IsProcess():
		return e.negotiateAndRun(res, req, st, result.Accepted(), "p11")

	case result.IsProcessRedirect():
		match, ok := resource.MatchAcceptedRedirect(req.Header.Get("Content-Type"), result.Redirect())
		if !ok {
			return e.halt(st, http.StatusUnsupportedMediaType)
		}
		var loc string
		actionErr := e.guardAction(name, func() error {
			var actionErr error
			loc, actionErr = match.Action(req)
			return actionErr
		})
		if actionErr != nil {
			return e.haltForActionError(st, actionErr)
		}
		st.setHeader("Location", loc)
		return e.halt(st, http.StatusSeeOther)

	default:
		return e.halt(st, http.StatusInternalServerError)
	}
}

// render implements o18: the terminal success path for GET/HEAD and for any
// write that fell through without producing a Location (spec.md §4.2).
func (e *Engine) render(res resource.Callbacks, req *http.Request, st *State) string {
	if res.MultipleChoices(st) {
		return e.halt(st, http.StatusMultipleChoices)
	}

	provided, ok := st.MatchedContentType()
	if !ok {
		all := res.ContentTypesProvided(st)
		if len(all) == 0 {
			return e.halt(st, http.StatusInternalServerError)
		}
		provided = all[0]
	}

	start := time.Now()
	body, err := e.guardProduce(resourceName(res), func() ([]byte, error) { return provided.Produce(req) })
	if e.Metrics != nil {
		e.Metrics.MeasureBodyProducer(provided.Type, start)
	}
	if err != nil {
		return e.haltForActionError(st, err)
	}
	st.setBody(body)

	st.setHeader("Content-Type", provided.Type)
	if etag, ok := res.GenerateETag(st, req); ok && etag != "" {
		st.setHeader("ETag", etag)
	}
	if t, ok := res.LastModified(st); ok {
		st.setHeader("Last-Modified", t.UTC().Format(http.TimeFormat))
	}

	return e.halt(st, http.StatusOK)
}
