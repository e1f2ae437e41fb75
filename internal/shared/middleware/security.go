package middleware

import (
	"net"
	"net/http"
	"strings"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// HSTS tells browsers to use HTTPS for a year. Only mount it when the
// server terminates TLS.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", hstsValue)
		next.ServeHTTP(w, r)
	})
}

// SecureCookies forces Secure and HttpOnly on every cookie the handler
// sets, and SameSite=Strict when the handler left it unset.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&secureCookieWriter{ResponseWriter: w}, r)
	})
}

type secureCookieWriter struct {
	http.ResponseWriter
	done bool
}

func (w *secureCookieWriter) WriteHeader(status int) {
	w.harden()
	w.ResponseWriter.WriteHeader(status)
}

func (w *secureCookieWriter) Write(b []byte) (int, error) {
	w.harden()
	return w.ResponseWriter.Write(b)
}

func (w *secureCookieWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *secureCookieWriter) harden() {
	if w.done {
		return
	}
	w.done = true

	h := w.ResponseWriter.Header()
	lines := h.Values("Set-Cookie")
	if len(lines) == 0 {
		return
	}
	h.Del("Set-Cookie")
	for _, line := range lines {
		h.Add("Set-Cookie", secureCookie(line))
	}
}

// secureCookie returns line with the security attributes applied.
// Lines that do not parse are passed through.
func secureCookie(line string) string {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return line
	}
	c.Secure = true
	c.HttpOnly = true
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteStrictMode
	}
	return c.String()
}

// IsHostAllowed reports whether host names one of allowedHosts. Ports are
// ignored and IPv6 brackets are optional. An empty list allows every host.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	name := bareHost(host)
	if name == "" {
		return false
	}
	for _, allowed := range allowedHosts {
		if bareHost(allowed) == name {
			return true
		}
	}
	return false
}

func bareHost(hostport string) string {
	hostport = strings.ToLower(strings.TrimSpace(hostport))
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]")
}
