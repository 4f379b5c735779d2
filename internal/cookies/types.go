package cookies

import (
	"strings"
	"time"

	"github.com/warpdl/warpjar/pkg/jar"
)

// Format identifies the format of a browser cookie store.
type Format int

const (
	FormatUnknown Format = iota
	// FormatFirefox is the Firefox moz_cookies SQLite schema.
	FormatFirefox
	// FormatChrome is the Chrome cookies SQLite schema. Only rows with a
	// plaintext value are usable.
	FormatChrome
	// FormatNetscape is the tab-separated cookies.txt format.
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "unknown"
	}
}

// Source describes where records were imported from.
type Source struct {
	Path   string
	Format Format
}

// entry is one row of a browser store before it becomes a jar record.
type entry struct {
	name, value string
	host, path  string
	expires     time.Time // zero for session cookies
	created     time.Time
	secure      bool
	httpOnly    bool
	sameSite    jar.SameSite
}

// record converts e into a jar record. Browser stores mark domain cookies
// with a leading dot; anything else is host-only.
func (e entry) record(now time.Time) jar.Cookie {
	host := strings.ToLower(e.host)
	c := jar.Cookie{
		Name:       e.name,
		Value:      e.value,
		Domain:     strings.TrimPrefix(host, "."),
		Path:       e.path,
		Creation:   e.created,
		LastAccess: now,
		Expires:    e.expires,
		Persistent: !e.expires.IsZero(),
		HostOnly:   !strings.HasPrefix(host, "."),
		Secure:     e.secure,
		HttpOnly:   e.httpOnly,
		SameSite:   e.sameSite,
	}
	if c.Path == "" || c.Path[0] != '/' {
		c.Path = "/"
	}
	if c.Creation.IsZero() {
		c.Creation = now
	}
	return c
}

// matchesDomain reports whether a store host belongs to domain. An empty
// domain matches everything.
func matchesDomain(host, domain string) bool {
	if domain == "" {
		return true
	}
	host = strings.TrimPrefix(strings.ToLower(host), ".")
	return jar.DomainMatch(host, strings.ToLower(domain))
}
