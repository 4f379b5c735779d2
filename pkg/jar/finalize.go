package jar

import (
	"strings"
	"time"
)

// PublicSuffixList reports the public suffix of a domain, e.g. "co.uk" for
// "www.example.co.uk". golang.org/x/net/publicsuffix.List satisfies it.
type PublicSuffixList interface {
	PublicSuffix(domain string) string
	String() string
}

// Finalize turns a parsed Set-Cookie into a storable record for a response
// to requestURL received at now. Any failed gate discards the whole cookie;
// the returned error then matches ErrDiscarded and names the reason.
func Finalize(sc *SetCookie, requestURL string, now time.Time) (*Cookie, error) {
	return finalize(sc, requestURL, now, nil)
}

func finalize(sc *SetCookie, requestURL string, now time.Time, psl PublicSuffixList) (*Cookie, error) {
	host := strings.ToLower(DomainOf(requestURL))
	if host == "" {
		return nil, malformed(ErrInvalidURL)
	}

	c := &Cookie{
		Name:       sc.Name,
		Value:      sc.Value,
		Creation:   now,
		LastAccess: now,
		HttpOnly:   sc.HttpOnly,
		SameSite:   sc.SameSite,
	}

	switch {
	case sc.HasMaxAge:
		c.Persistent, c.Expires = true, sc.MaxAge
	case sc.HasExpires:
		c.Persistent, c.Expires = true, sc.Expires
	}

	if sc.HasDomain {
		if !isASCII(sc.Domain) {
			return nil, violation(ErrDomainNotASCII)
		}
		if !DomainMatch(host, sc.Domain) {
			return nil, violation(ErrDomainMismatch)
		}
		c.Domain = sc.Domain
		if psl != nil && isPublicSuffix(psl, sc.Domain) {
			if sc.Domain != host {
				return nil, violation(ErrPublicSuffix)
			}
			c.HostOnly = true
		}
	} else {
		c.HostOnly = true
		c.Domain = host
	}

	if sc.HasPath {
		c.Path = sc.Path
	} else {
		c.Path = DefaultPath(requestURL)
	}

	if sc.Secure {
		if !IsSecure(requestURL) {
			return nil, violation(ErrSecureFromInsecure)
		}
		c.Secure = true
	}

	if c.SameSite == SameSiteNone && !c.Secure {
		return nil, violation(ErrSameSiteNoneInsecure)
	}

	if err := checkPrefixes(c); err != nil {
		return nil, err
	}
	return c, nil
}

func checkPrefixes(c *Cookie) error {
	if c.Name == "" {
		if hasPrefixFold(c.Value, "__secure-") || hasPrefixFold(c.Value, "__host-") {
			return violation(ErrPrefixRules)
		}
		return nil
	}
	if hasPrefixFold(c.Name, "__secure-") && !c.Secure {
		return violation(ErrPrefixRules)
	}
	if hasPrefixFold(c.Name, "__host-") && (!c.Secure || !c.HostOnly || c.Path != "/") {
		return violation(ErrPrefixRules)
	}
	return nil
}

// isPublicSuffix reports whether domain is itself a public suffix.
func isPublicSuffix(psl PublicSuffixList, domain string) bool {
	ps := psl.PublicSuffix(domain)
	return ps != "" && ps == domain
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
