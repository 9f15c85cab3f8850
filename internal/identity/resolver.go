package identity

import (
	"net"
	"net/http"
	"strings"
)

// fallbackFingerprint is used when a request carries no usable origin signal.
const fallbackFingerprint = "127.0.0.1"

// FromRequest derives a best-effort origin fingerprint for abuse deterrence.
// Order of preference: first X-Forwarded-For hop, then the transport peer
// address, then a fixed fallback. Never fails.
func FromRequest(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// The header may carry the whole proxy chain; the client is the first hop.
		first := fwd
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			first = fwd[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return fallbackFingerprint
}
