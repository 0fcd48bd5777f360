// Package middleware carries the HTTP request pipeline: request IDs,
// structured request logging, panic recovery, Prometheus instrumentation,
// cookie-based identity resolution, and the boundary filter that gates
// the protected route prefix.
package middleware
