package middleware

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// TrustedHosts rejects requests whose Host header is not on the allow-list.
// Entries may use a leading "*." wildcard; a single "*" disables the check.
func TrustedHosts(allowed []string) func(http.Handler) http.Handler {
	open := len(allowed) == 0
	for _, h := range allowed {
		if h == "*" {
			open = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open || hostAllowed(r.Host, allowed) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Invalid host header", http.StatusBadRequest)
		})
	}
}

func hostAllowed(hostport string, allowed []string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	for _, pattern := range allowed {
		if strings.EqualFold(host, pattern) {
			return true
		}
		if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
			if strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(suffix)) {
				return true
			}
		}
	}
	return false
}

// HTTPSRedirect sends plain-HTTP requests to the equivalent https URL. When
// disabled it is a pass-through.
func HTTPSRedirect(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				next.ServeHTTP(w, r)
				return
			}
			target := url.URL{Scheme: "https", Host: r.Host, Path: r.URL.Path, RawQuery: r.URL.RawQuery}
			http.Redirect(w, r, target.String(), http.StatusTemporaryRedirect)
		})
	}
}
