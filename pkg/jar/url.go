package jar

import (
	"net"
	"strings"
)

// splitURL strips the fragment and query from rawURL and returns the scheme
// (empty when there is no "://") and the remaining authority+path.
func splitURL(rawURL string) (scheme, rest string) {
	rest = rawURL
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "://"); i >= 0 {
		scheme, rest = rest[:i], rest[i+3:]
	}
	return scheme, rest
}

// SchemeOf returns the scheme of rawURL, or "" when it has none.
func SchemeOf(rawURL string) string {
	scheme, _ := splitURL(rawURL)
	return scheme
}

// DomainOf returns the host of rawURL without port or userinfo.
// Without a scheme, everything before the first '/' or ':' is the host.
func DomainOf(rawURL string) string {
	_, rest := splitURL(rawURL)
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		rest = rest[i+1:]
	}
	if strings.HasPrefix(rest, "[") {
		if i := strings.IndexByte(rest, ']'); i >= 0 {
			return rest[1:i]
		}
	}
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// PathOf returns the '/'-prefixed path of rawURL, or "" when no '/' follows
// the authority. Callers apply DefaultPath or "/" themselves.
func PathOf(rawURL string) string {
	_, rest := splitURL(rawURL)
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return ""
	}
	return rest[i:]
}

// IsSecure reports whether rawURL uses the https scheme.
func IsSecure(rawURL string) bool {
	return strings.EqualFold(SchemeOf(rawURL), "https")
}

// DomainMatch reports whether host domain-matches cookieDomain: the two are
// equal ignoring case, or cookieDomain is a dot-delimited suffix of host.
// IP address hosts only match exactly.
func DomainMatch(host, cookieDomain string) bool {
	host = strings.ToLower(host)
	cookieDomain = strings.ToLower(cookieDomain)
	if host == cookieDomain {
		return true
	}
	if cookieDomain == "" || len(host) <= len(cookieDomain) {
		return false
	}
	if !strings.HasSuffix(host, cookieDomain) {
		return false
	}
	if host[len(host)-len(cookieDomain)-1] != '.' {
		return false
	}
	return net.ParseIP(host) == nil
}

// PathMatch reports whether requestPath path-matches cookiePath: the two are
// equal, or cookiePath is a prefix of requestPath that ends in '/' or is
// followed by '/' in requestPath. "/dir" matches "/dir/sub" but not
// "/directory".
func PathMatch(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}

// DefaultPath computes the default cookie path for a response from rawURL:
// the URL path up to, but not including, its last '/'; "/" when that would
// be empty or the path is not absolute.
func DefaultPath(rawURL string) string {
	p := PathOf(rawURL)
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndexByte(p, '/')
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// requestPath is the path used for matching an outgoing request.
func requestPath(rawURL string) string {
	if p := PathOf(rawURL); p != "" {
		return p
	}
	return "/"
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
