package jar

import (
	"net/http"
	"strings"
	"time"
)

// SameSite is the policy a server attached to a cookie. It is recorded for
// inspection only.
type SameSite int

const (
	SameSiteDefault SameSite = iota
	SameSiteNone
	SameSiteLax
	SameSiteStrict
)

func (s SameSite) String() string {
	switch s {
	case SameSiteNone:
		return "None"
	case SameSiteLax:
		return "Lax"
	case SameSiteStrict:
		return "Strict"
	default:
		return "Default"
	}
}

// ParseSameSite maps an attribute value to a SameSite policy. Unknown and
// empty values yield SameSiteDefault.
func ParseSameSite(v string) SameSite {
	switch strings.ToLower(v) {
	case "none":
		return SameSiteNone
	case "lax":
		return SameSiteLax
	case "strict":
		return SameSiteStrict
	default:
		return SameSiteDefault
	}
}

// HTTP converts s to its net/http equivalent.
func (s SameSite) HTTP() http.SameSite {
	switch s {
	case SameSiteNone:
		return http.SameSiteNoneMode
	case SameSiteLax:
		return http.SameSiteLaxMode
	case SameSiteStrict:
		return http.SameSiteStrictMode
	default:
		return http.SameSiteDefaultMode
	}
}

// Cookie is a stored cookie record. Records are handed out by value, so
// callers may keep or modify them without touching the store.
type Cookie struct {
	Name   string
	Value  string
	Domain string // lower-case host, or the suffix given by a Domain attribute
	Path   string // always starts with "/"

	Creation   time.Time // set at first storage, kept across replacements
	LastAccess time.Time // bumped on every match
	Expires    time.Time // meaningful only when Persistent

	Persistent bool // Expires or Max-Age was present
	HostOnly   bool // no Domain attribute; matches the exact host only
	Secure     bool
	HttpOnly   bool
	SameSite   SameSite
}

// Key identifies the record a newly stored cookie replaces.
type Key struct {
	Name     string
	Domain   string
	Path     string
	HttpOnly bool
}

// Key returns the identity key of c.
func (c *Cookie) Key() Key {
	return Key{Name: c.Name, Domain: c.Domain, Path: c.Path, HttpOnly: c.HttpOnly}
}

// Expired reports whether c is persistent and its expiry lies before now.
// Session cookies never expire by time.
func (c *Cookie) Expired(now time.Time) bool {
	return c.Persistent && c.Expires.Before(now)
}

// HTTP converts c to a *http.Cookie for display and interop.
func (c *Cookie) HTTP() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: c.SameSite.HTTP(),
	}
	if !c.HostOnly {
		hc.Domain = c.Domain
	}
	if c.Persistent {
		hc.Expires = c.Expires
	}
	return hc
}

func (c *Cookie) matches(host, path string, secure bool) bool {
	if c.HostOnly {
		if c.Domain != host {
			return false
		}
	} else if !DomainMatch(host, c.Domain) {
		return false
	}
	if !PathMatch(path, c.Path) {
		return false
	}
	return !c.Secure || secure
}
