package server

import (
	"net"
	"net/http"
	"strings"
)

// clientID resolves the identifier the rate limiter keys on. Behind a proxy
// the first X-Forwarded-For entry is the original client; otherwise the peer
// address is used. The limiter always receives a non-empty id, so the final
// fallback is a shared sentinel.
func clientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
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
