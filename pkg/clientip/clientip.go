// Package clientip extracts real client IP addresses from HTTP requests.
//
// Proxy headers are checked in priority order (CF-Connecting-IP,
// DO-Connecting-IP, X-Forwarded-For, X-Real-IP) before falling back to
// RemoteAddr. Extracted values are validated and normalized; when no
// valid IP can be determined the raw RemoteAddr host is returned.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

// headers checked in priority order, most reliable sources first.
var headers = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// GetIP returns the client IP for the request. Never returns an empty
// string for a request with a populated RemoteAddr.
func GetIP(r *http.Request) string {
	for _, h := range headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}

		// X-Forwarded-For may contain "client, proxy1, proxy2";
		// the leftmost entry is the original client.
		if h == "X-Forwarded-For" {
			value, _, _ = strings.Cut(value, ",")
		}

		if ip := parse(value); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := parse(host); ip != "" {
		return ip
	}
	return host
}

// parse validates and normalizes an IP string. Returns "" for invalid
// values and for 0.0.0.0, which signals no usable client address.
func parse(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}
