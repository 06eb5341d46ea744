/*
Package circuit implements circuit breaker functionality for the resource
callbacks a decision engine invokes.

It provides two types of circuit breakers: consecutive and failure rate
based. Breakers can be configured globally or per resource name. The
Registry ensures synchronized access to the active breakers and recycles
idle ones so that a resource which stops receiving traffic doesn't keep its
breaker (and its accumulated failure history) alive forever.

Breakers are always keyed by resource name, so the outcome of traversals
against one resource never affects the breaker behavior of another.

# Breaker Type - Consecutive Failures

This breaker opens after N consecutive failed invocations of a resource's
body producer or action callback. While open, the engine short-circuits with
a 503 response instead of invoking the callback. After a timeout the breaker
goes half-open and expects M requests to succeed; any failure during the
half-open window reopens it.

# Breaker Type - Failure Rate

Works like the consecutive breaker, but instead of counting consecutive
failures it keeps a sliding window of the last M outcomes and opens once the
number of failures within the window reaches N. This keeps the breaker's
characteristics stable across both high and low traffic resources.

# Registry

The active breakers live in a Registry, created on demand for the requested
settings. Resource-specific settings are merged with the registry-wide
defaults, so only deviations from the default need to be declared. Breakers
idle longer than their own IdleTTL are reset on next use, and breakers that
haven't been touched within the registry's idle window are evicted from the
lookup table entirely to bound memory use under a changing resource set.
*/
package circuit
