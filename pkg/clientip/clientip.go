package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Common proxy headers, in the order they are usually trusted.
const (
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
)

// Resolver extracts the client address from a request. Proxy headers are read
// only when listed in trusted, in order; RemoteAddr is the fallback.
type Resolver struct {
	trusted []string
}

// NewResolver returns a Resolver trusting the given headers.
// With no headers only RemoteAddr is used.
func NewResolver(trusted ...string) *Resolver {
	headers := make([]string, 0, len(trusted))
	for _, h := range trusted {
		if h = strings.TrimSpace(h); h != "" {
			headers = append(headers, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{trusted: headers}
}

// IP returns the normalized client address or "" if none is valid.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.trusted {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		// X-Forwarded-For is a list; the left-most valid entry is the client.
		for candidate := range strings.SplitSeq(value, ",") {
			if ip := parseIP(candidate); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
