package resource

// Named is an optional capability a resource implements to give itself a
// stable name for per-resource wiring that needs one: circuit breaker
// settings (SPEC_FULL §11.1) and the rate limiter registry (SPEC_FULL
// §11.2) are both keyed by this name. A resource that doesn't implement
// Named is treated as unnamed and opts out of both.
type Named interface {
	ResourceName() string
}
