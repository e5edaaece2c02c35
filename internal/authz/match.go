package authz

import (
	"net/url"
	"strings"
)

// MatchPath reports whether a concrete request path matches a stored route
// pattern. Patterns are /-delimited; a segment starting with ':' matches any
// single non-empty concrete segment, literal segments must match exactly
// (case-sensitive). Segment counts must match; there is no multi-segment
// wildcard. The path must be the raw request path: its segments are
// percent-decoded exactly once here, while pattern segments are compared
// as stored.
func MatchPath(pattern, path string) bool {
	pSegs := splitPath(pattern)
	cSegs := splitPath(path)
	if len(pSegs) != len(cSegs) {
		return false
	}
	for i, ps := range pSegs {
		cs := decodeSegment(cSegs[i])
		if strings.HasPrefix(ps, ":") {
			if cs == "" {
				return false
			}
			continue
		}
		if ps != cs {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func decodeSegment(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		// Undecodable segments compare raw rather than failing the request.
		return s
	}
	return decoded
}
