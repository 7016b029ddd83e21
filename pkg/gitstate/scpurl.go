package gitstate

import (
	"net/url"
	"strings"
)

// SCPURL is a parsed SCP-style remote address. These have no RFC; the
// accepted shape is <username>@<host>:<path> with no stray separators in
// any part.
type SCPURL struct {
	User string
	Host string
	Path string
}

// ParseSCPURL parses an SCP-style address, reporting false for anything
// that does not fit the shape.
func ParseSCPURL(raw string) (SCPURL, bool) {
	user, rest, ok := strings.Cut(raw, "@")
	if !ok {
		return SCPURL{}, false
	}
	host, path, ok := strings.Cut(rest, ":")
	if !ok {
		return SCPURL{}, false
	}
	if strings.Contains(user, ":") || strings.Contains(host, "@") ||
		strings.Contains(path, ":") || strings.Contains(path, "@") {
		return SCPURL{}, false
	}
	return SCPURL{User: user, Host: host, Path: path}, true
}

// remoteHost extracts the host from a remote address, accepting standard
// URLs first and SCP-style addresses as a fallback.
func remoteHost(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Hostname()
	}
	if scp, ok := ParseSCPURL(raw); ok {
		return scp.Host
	}
	return ""
}
