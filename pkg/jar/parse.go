package jar

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	maxNameValueBytes = 4096
	maxAttributeBytes = 1024
	// MaxAge is the longest lifetime a cookie can be given.
	MaxAge = 400 * 24 * time.Hour
)

// expiredTime stands in for "already expired" (Max-Age <= 0).
var expiredTime = time.Unix(0, 0).UTC()

// SetCookie is the attribute set parsed from one Set-Cookie header line.
// Path and Domain resolution against the request happen in Finalize.
type SetCookie struct {
	Name  string
	Value string

	Expires    time.Time
	HasExpires bool
	MaxAge     time.Time // absolute instant derived from the Max-Age delta
	HasMaxAge  bool

	Domain    string
	HasDomain bool
	Path      string
	HasPath   bool

	Secure   bool
	HttpOnly bool
	SameSite SameSite
}

// ParseSetCookie parses one raw Set-Cookie header line, with or without the
// "Set-Cookie:" prefix. A non-nil error means the whole cookie is discarded;
// invalid individual attributes are ignored instead.
func ParseSetCookie(line string, now time.Time) (*SetCookie, error) {
	line, ok := cutHeaderName(line)
	if !ok && isOtherHeader(line) {
		return nil, malformed(ErrNotSetCookie)
	}
	for i := 0; i < len(line); i++ {
		if b := line[i]; (b < 0x20 && b != '\t') || b == 0x7f {
			return nil, malformed(ErrControlChar)
		}
	}

	segments := strings.Split(line, ";")
	name, value, found := strings.Cut(segments[0], "=")
	if !found {
		name, value = "", name
	}
	sc := &SetCookie{
		Name:  trimSpace(name),
		Value: trimSpace(value),
	}
	if sc.Name == "" && sc.Value == "" {
		return nil, malformed(ErrEmptyCookie)
	}
	if len(sc.Name)+len(sc.Value) > maxNameValueBytes {
		return nil, malformed(ErrCookieTooLarge)
	}

	for _, seg := range segments[1:] {
		seg = trimSpace(seg)
		if seg == "" {
			continue
		}
		attr, val, _ := strings.Cut(seg, "=")
		sc.apply(strings.ToLower(trimSpace(attr)), trimSpace(val), now)
	}
	return sc, nil
}

func (sc *SetCookie) apply(attr, val string, now time.Time) {
	switch attr {
	case "expires":
		t, err := parseCookieDate(val)
		if err != nil {
			return
		}
		if limit := now.Add(MaxAge); t.After(limit) {
			t = limit
		}
		sc.Expires, sc.HasExpires = t, true
	case "max-age":
		t, ok := parseMaxAge(val, now)
		if !ok {
			return
		}
		sc.MaxAge, sc.HasMaxAge = t, true
	case "domain":
		val = strings.ToLower(strings.TrimPrefix(val, "."))
		if val == "" || len(val) > maxAttributeBytes {
			return
		}
		sc.Domain, sc.HasDomain = val, true
	case "path":
		if val != "" && val[0] == '/' && len(val) <= maxAttributeBytes {
			sc.Path, sc.HasPath = val, true
		} else {
			sc.Path, sc.HasPath = "", false
		}
	case "secure":
		sc.Secure = true
	case "httponly":
		sc.HttpOnly = true
	case "samesite":
		sc.SameSite = ParseSameSite(val)
	}
}

// parseMaxAge converts a Max-Age value into an absolute expiry.
func parseMaxAge(val string, now time.Time) (time.Time, bool) {
	if val == "" || val[0] == '+' {
		return time.Time{}, false
	}
	delta, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || numErr.Err != strconv.ErrRange {
			return time.Time{}, false
		}
		if val[0] == '-' {
			return expiredTime, true
		}
		return now.Add(MaxAge), true
	}
	if delta <= 0 {
		return expiredTime, true
	}
	if limit := int64(MaxAge / time.Second); delta > limit {
		delta = limit
	}
	return now.Add(time.Duration(delta) * time.Second), true
}

// cutHeaderName returns what follows the "Set-Cookie:" header name in line
// and whether line starts with that header name. Whitespace is allowed
// before the colon.
func cutHeaderName(line string) (string, bool) {
	const name = "set-cookie"
	if !hasPrefixFold(line, name) {
		return line, false
	}
	rest := strings.TrimLeft(line[len(name):], " \t")
	if !strings.HasPrefix(rest, ":") {
		return line, false
	}
	return rest[1:], true
}

// isOtherHeader reports whether line is a header like "Set-Cookie2: ..."
// whose name merely starts with set-cookie.
func isOtherHeader(line string) bool {
	if !hasPrefixFold(line, "set-cookie") {
		return false
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return false
	}
	eq := strings.IndexByte(line, '=')
	return eq < 0 || colon < eq
}

func trimSpace(s string) string {
	return strings.Trim(s, " \t")
}
