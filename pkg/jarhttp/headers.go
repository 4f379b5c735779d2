package jarhttp

import (
	"maps"
	"net/http"
	"slices"
)

const (
	UserAgentKey = "User-Agent"
	CookieKey    = "Cookie"
)

// DefaultUserAgent is sent when the caller supplies no User-Agent header.
const DefaultUserAgent = "warpjar/1.0"

// Headers is an ordered list of request headers. Keys may repeat.
type Headers []Header

// Get returns the index of the first header with the given key.
func (h Headers) Get(key string) (index int, have bool) {
	key = http.CanonicalHeaderKey(key)
	for i, x := range h {
		if http.CanonicalHeaderKey(x.Key) == key {
			return i, true
		}
	}
	return 0, false
}

// InitOrUpdate appends the header unless one with the same key exists.
func (h *Headers) InitOrUpdate(key, value string) {
	if _, ok := h.Get(key); ok {
		return
	}
	*h = append(*h, Header{key, value})
}

// Update replaces the first header with the given key, or appends it.
func (h *Headers) Update(key, value string) {
	if i, ok := h.Get(key); ok {
		(*h)[i] = Header{key, value}
		return
	}
	*h = append(*h, Header{key, value})
}

// Add adds every header to the given http.Header, keeping duplicates in order.
func (h Headers) Add(header http.Header) {
	for _, x := range h {
		header.Add(x.Key, x.Value)
	}
}

// safe returns the headers that may follow a redirect to another origin.
func (h Headers) safe() Headers {
	var out Headers
	for _, x := range h {
		if safeHeaders[http.CanonicalHeaderKey(x.Key)] {
			out = append(out, x)
		}
	}
	return out
}

// safeHeaders carry no credentials and survive cross-origin redirects.
// Cookie is absent on purpose: the jar recomputes it for every hop.
var safeHeaders = map[string]bool{
	"User-Agent":      true,
	"Accept":          true,
	"Accept-Language": true,
	"Accept-Encoding": true,
}

// Header is a single request header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HeaderLines flattens a response header into "Key: value" lines, keys in
// sorted order and repeated values in received order.
func HeaderLines(h http.Header) []string {
	var lines []string
	for _, k := range slices.Sorted(maps.Keys(h)) {
		for _, v := range h[k] {
			lines = append(lines, k+": "+v)
		}
	}
	return lines
}
