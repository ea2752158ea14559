// Package middleware provides HTTP middleware for the API server.
package middleware

import "net/http"

// Stack combines multiple middleware functions into a single middleware.
// Middlewares are applied in the order they are passed.
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
