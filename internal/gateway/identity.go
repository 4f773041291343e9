package gateway

import (
	"net"
	"net/http"
	"strings"
)

// UserIDHeader is set by the auth proxy in front of this service once it
// has verified the session. The identity provider itself is external.
const UserIDHeader = "X-User-ID"

// Identity resolves the rate-limit key for a request: the authenticated
// user id when present, else the caller's network origin. chi's RealIP
// middleware has already folded X-Forwarded-For / X-Real-IP into
// RemoteAddr by the time this runs.
func Identity(r *http.Request) string {
	if uid := strings.TrimSpace(r.Header.Get(UserIDHeader)); uid != "" {
		return uid
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
