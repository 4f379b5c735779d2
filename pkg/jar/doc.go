// Package jar implements a client-side HTTP cookie jar following RFC 6265bis.
//
// A response's Set-Cookie lines flow through ParseSetCookie, then Finalize,
// then Store.Save. Outgoing requests ask Store.CookieHeaderFor for the Cookie
// header value. Store.OnResponse runs the whole inbound pipeline.
//
// Security gates enforced on the way in: Secure cookies only from https
// origins, the __Secure- and __Host- name prefixes, SameSite=None requires
// Secure, Domain attributes must domain-match the request host, and an
// insecure response may not shadow an existing Secure cookie of the same name.
//
// HttpOnly and SameSite are recorded on every Cookie but not enforced: the jar
// has no notion of the calling script or of the browsing context that issued a
// request, so there is nothing to enforce them against.
//
// Matched cookies are returned most recently inserted first. The longest-path
// first ordering RFC 6265bis recommends is not applied.
//
// A Store is safe for concurrent use; every entry point takes its mutex.
package jar
