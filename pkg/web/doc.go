// Package web is the HTTP handler surface. Handlers return JSON, convert
// authorization denials into redirects or error responses, and keep
// guard checks inside the mutating actions rather than only at routing
// time.
package web
