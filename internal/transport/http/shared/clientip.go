package shared

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP prefers X-Forwarded-For (first hop) over the socket address so
// audit records survive a reverse proxy in front of the API.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
