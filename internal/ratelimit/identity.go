package ratelimit

import (
	"net"
	"strings"
)

// UnknownIdentity is the bucket shared by every caller that cannot be identified.
const UnknownIdentity = "unknown"

// ResolveIdentity picks the rate limit key for a request: the explicit user id, else the
// first X-Forwarded-For entry, else the host of the peer address, else UnknownIdentity.
func ResolveIdentity(userID, forwardedFor, remoteAddr string) string {
	if id := strings.TrimSpace(userID); id != "" {
		return id
	}

	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if remoteAddr = strings.TrimSpace(remoteAddr); remoteAddr != "" {
		host, _, err := net.SplitHostPort(remoteAddr)
		if err != nil {
			// no port
			host = remoteAddr
		}
		if host != "" {
			return host
		}
	}

	return UnknownIdentity
}
