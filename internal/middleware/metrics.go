package middleware

import (
	"crypto/subtle"
	"net/http"
)

// MetricsAuthMiddleware gates the Prometheus scrape endpoint behind HTTP
// basic auth. The generate and template APIs stay open; only /metrics is
// worth protecting since it leaks campaign volume.
type MetricsAuthMiddleware struct {
	username string
	password string
	enabled  bool
}

// NewMetricsAuthMiddleware creates the middleware from METRICS_USERNAME and
// METRICS_PASSWORD. Leaving both empty disables authentication entirely,
// which suits local development against a scraper on the same host.
func NewMetricsAuthMiddleware(username, password string) *MetricsAuthMiddleware {
	return &MetricsAuthMiddleware{
		username: username,
		password: password,
		enabled:  username != "" || password != "",
	}
}

// Handler wraps next with the basic auth check.
func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !m.credentialsMatch(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// credentialsMatch compares in constant time so response latency does not
// reveal how much of a guess was correct.
func (m *MetricsAuthMiddleware) credentialsMatch(user, pass string) bool {
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(m.username)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(m.password)) == 1
	return userMatch && passMatch
}
