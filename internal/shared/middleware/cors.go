package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows browser calls from the configured hosts with credentials,
// so the session cookie travels with them. An empty list allows any
// origin without credentials.
func CORS(allowedHosts []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}

	if len(allowedHosts) == 0 {
		opts.AllowedOrigins = []string{"*"}
	} else {
		opts.AllowCredentials = true
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return isOriginAllowed(origin, allowedHosts)
		}
	}

	return cors.Handler(opts)
}

// isOriginAllowed matches the origin's host against allowedHosts. Entries
// may be bare hosts or full origins; one without a port matches any port.
func isOriginAllowed(origin string, allowedHosts []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	host := strings.ToLower(u.Host)
	hostname := strings.ToLower(u.Hostname())
	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if strings.Contains(allowed, "://") {
			if a, err := url.Parse(allowed); err == nil {
				allowed = a.Host
			}
		}
		if allowed != "" && (allowed == host || allowed == hostname) {
			return true
		}
	}
	return false
}
