package proxy

import "strings"

// forwardable lists the exact header names (lower-case) allowed across the gateway.
var forwardable = map[string]struct{}{
	"authorization": {},
	"content-type":  {},
	"accept":        {},
	"user-agent":    {},
}

// AllowHeader reports whether an inbound header may be forwarded to an upstream service.
// Exact names from the allow-list and any x- prefixed header pass; hop-by-hop headers
// such as Host or Connection never do.
func AllowHeader(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := forwardable[lower]; ok {
		return true
	}
	return strings.HasPrefix(lower, "x-")
}
