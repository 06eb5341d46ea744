/*
This command provides an executable airship server: it reads a route
definition file, builds a routing trie and a decision engine wired with the
circuit breaker, rate limiter, metrics and tracing packages, and serves
requests against it.

For the list of command line options, run:

	airshipd -help
*/
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/kellymclaughlin/airship/circuit"
	"github.com/kellymclaughlin/airship/config"
	"github.com/kellymclaughlin/airship/decision"
	"github.com/kellymclaughlin/airship/logging"
	"github.com/kellymclaughlin/airship/metrics"
	"github.com/kellymclaughlin/airship/ratelimit"
	"github.com/kellymclaughlin/airship/route"
	"github.com/kellymclaughlin/airship/server"
	"github.com/kellymclaughlin/airship/tracing"
)

var version string

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && version == "" {
		version = info.Main.Version
	}
}

func serverID() string {
	if version == "" || version == "(devel)" {
		return "airship/dev"
	}
	return "airship/" + version
}

func main() {
	cfg := config.NewConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatalf("error processing config: %s", err)
	}

	openLog := func(path string) io.Writer {
		if path == "" {
			return nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("cannot open log file: %s", err)
		}
		return f
	}

	logging.Init(logging.Options{
		ApplicationLogOutput:      openLog(cfg.ApplicationLog),
		ApplicationLogJSONEnabled: cfg.JSONLogs,
		AccessLogOutput:           openLog(cfg.AccessLogFile),
		AccessLogJSONEnabled:      cfg.JSONLogs,
	})

	if cfg.RouteFile == "" {
		log.Fatal("missing -route-file")
	}
	routeFile, err := os.Open(cfg.RouteFile)
	if err != nil {
		log.Fatalf("cannot open route file: %s", err)
	}
	spec, err := loadRoutes(routeFile, cfg.BearerSecret)
	routeFile.Close()
	if err != nil {
		log.Fatalf("cannot load routes: %s", err)
	}
	trie := route.Build(spec)

	pm := metrics.Init(metrics.Options{EnableRuntimeMetrics: true})

	var breakers *circuit.Registry
	if len(cfg.Breaker) > 0 {
		breakers = circuit.NewRegistry(cfg.Breaker...)
	}

	var rateLimits *ratelimit.Registry
	if len(cfg.RateLimit) > 0 {
		rateLimits = ratelimit.NewRegistry(cfg.RateLimit...)
	}

	shutdown, err := tracing.Init(context.Background(), &tracing.Options{})
	if err != nil {
		log.Fatalf("cannot init tracing: %s", err)
	}
	defer shutdown(context.Background())

	engine := decision.NewEngine(serverID())
	engine.Breakers = breakers
	engine.RateLimits = rateLimits
	engine.Metrics = pm
	engine.Tracer = tracing.Tracer("airship/decision")

	staticHeaders := make(http.Header)
	for _, h := range cfg.Headers {
		name, value, ok := splitHeader(h)
		if ok {
			staticHeaders.Add(name, value)
		}
	}

	srv := &server.Server{
		Trie:          trie,
		Engine:        engine,
		Metrics:       pm,
		StaticHeaders: staticHeaders,
		NoCompress:    cfg.NoCompress,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", pm.Handler())
	mux.Handle("/", srv)

	log.Infof("airship listening on %s", cfg.Address)
	if err := http.ListenAndServe(cfg.Address, mux); err != nil {
		log.Fatal(err)
	}
}

func splitHeader(h string) (name, value string, ok bool) {
	for i := 0; i < len(h); i++ {
		if h[i] == ':' {
			name = h[:i]
			value = h[i+1:]
			for len(value) > 0 && value[0] == ' ' {
				value = value[1:]
			}
			return name, value, true
		}
	}
	return "", "", false
}
