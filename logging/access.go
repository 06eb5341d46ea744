package logging

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// KeyMaskedQueryParams, when present in LogAccess's additional map, points
// to a set of query parameter names whose values get replaced with their
// length instead of being written to the access log verbatim.
const KeyMaskedQueryParams = "masked-query-params"

const flowIDHeader = "X-Flow-Id"

var accessLogStripQuery bool

// AccessEntry carries everything the access log line needs about one
// finished decision-graph traversal.
type AccessEntry struct {
	Request      *http.Request
	ResponseSize int64
	StatusCode   int
	RequestTime  time.Time
	Duration     time.Duration
	AuthUser     string

	// DecisionTrace is the comma-joined node labels visited during the
	// traversal, the same value sent back in the Airship-Trace header.
	DecisionTrace string

	// RequestID is the value carried in X-Flow-Id, generated when absent.
	RequestID string
}

// accessLogFormatter renders the combined-log-format line that LogAccess
// precomputes into the entry's "line" field.
type accessLogFormatter struct{}

func (accessLogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	line, _ := e.Data["line"].(string)
	return []byte(line + "\n"), nil
}

func remoteHost(r *http.Request) string {
	if ff := r.Header.Get("X-Forwarded-For"); ff != "" {
		return ff
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func maskedURI(r *http.Request, masked map[string]struct{}) string {
	if r == nil || r.URL == nil || len(masked) == 0 {
		if r == nil {
			return ""
		}
		return r.RequestURI
	}

	q := r.URL.Query()
	changed := false
	for name := range masked {
		if vs, ok := q[name]; ok {
			for i := range vs {
				vs[i] = strconv.Itoa(len(vs[i]))
			}
			q[name] = vs
			changed = true
		}
	}

	if !changed {
		return r.RequestURI
	}

	path, _, _ := strings.Cut(r.RequestURI, "?")
	return path + "?" + q.Encode()
}

func requestFields(r *http.Request, additional map[string]any) (method, uri, proto string) {
	if r == nil {
		return "-", "-", "-"
	}

	method, proto = r.Method, r.Proto
	masked, _ := additional[KeyMaskedQueryParams].(map[string]struct{})
	uri = maskedURI(r, masked)

	if accessLogStripQuery {
		uri, _, _ = strings.Cut(uri, "?")
	}

	return
}

// LogAccess writes one access log line for entry. additional merges extra
// fields into the JSON representation; apart from KeyMaskedQueryParams,
// which masks the URI in both formats, it has no effect on the combined log
// format. A nil entry is ignored, so a traversal that never reached a
// terminal node produces no access log line.
func LogAccess(entry *AccessEntry, additional map[string]any) {
	if entry == nil {
		return
	}

	method, uri, proto := requestFields(entry.Request, additional)

	var host, requestedHost, referer, userAgent string
	flowID := entry.RequestID
	if entry.Request != nil {
		host = remoteHost(entry.Request)
		requestedHost = entry.Request.Host
		referer = entry.Request.Referer()
		userAgent = entry.Request.UserAgent()
		if h := entry.Request.Header.Get(flowIDHeader); h != "" {
			flowID = h
		}
	}

	line := strings.Join([]string{
		dash(host), "-", dash(entry.AuthUser),
		"[" + entry.RequestTime.Format("02/Jan/2006:15:04:05 -0700") + "]",
		`"` + method + " " + uri + " " + proto + `"`,
		strconv.Itoa(entry.StatusCode),
		strconv.FormatInt(entry.ResponseSize, 10),
		`"` + dash(referer) + `"`, `"` + dash(userAgent) + `"`,
		strconv.FormatInt(entry.Duration.Milliseconds(), 10),
		dash(requestedHost), dash(flowID), entry.DecisionTrace,
	}, " ")

	fields := logrus.Fields{
		"line":           line,
		"host":           host,
		"method":         method,
		"uri":            uri,
		"proto":          proto,
		"status":         entry.StatusCode,
		"response-size":  entry.ResponseSize,
		"duration":       entry.Duration.Milliseconds(),
		"requested-host": requestedHost,
		"flow-id":        flowID,
		"auth-user":      entry.AuthUser,
		"decision-trace": entry.DecisionTrace,
	}

	for k, v := range additional {
		if k == KeyMaskedQueryParams {
			continue
		}
		fields[k] = v
	}

	accessLog.WithFields(fields).Info()
}
