package jarhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// DefaultMaxRedirects is the maximum number of redirect hops followed.
const DefaultMaxRedirects = 10

var (
	// ErrBusy is returned when Do is called while another call on the same
	// Request is still in flight.
	ErrBusy = errors.New("request already in flight")

	ErrTooManyRedirects      = errors.New("redirect loop detected")
	ErrCrossProtocolRedirect = errors.New("cross-protocol redirect not supported")
)

// Request issues cookie-aware HTTP requests against a jar. A Request carries
// at most one call at a time; the jar itself may be shared.
type Request struct {
	jar          *jar.Store
	client       *http.Client
	log          logger.Logger
	maxRedirects int

	inflight atomic.Bool
}

// NewRequest returns a Request bound to store. A nil client means a direct
// connection; a nil logger discards output.
func NewRequest(store *jar.Store, client *http.Client, l logger.Logger) *Request {
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	c.CheckRedirect = stopRedirects
	return &Request{
		jar:          store,
		client:       &c,
		log:          logger.OrNop(l),
		maxRedirects: DefaultMaxRedirects,
	}
}

// SetMaxRedirects changes the redirect hop limit. n <= 0 disables redirects.
func (r *Request) SetMaxRedirects(n int) {
	r.maxRedirects = n
}

// Do sends a request to rawURL, following redirects. Before each hop the
// jar's Cookie header for that hop's URL is appended after any Cookie
// headers in headers; after each hop its Set-Cookie lines are stored against
// that URL. The caller must close the returned response body.
//
// Discarded cookies never fail the call. A non-nil error means no response
// is returned: ErrBusy, a redirect policy error or a transport error.
func (r *Request) Do(ctx context.Context, method, rawURL string, headers Headers, body []byte) (*http.Response, error) {
	if !r.inflight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.inflight.Store(false)

	headers = append(Headers(nil), headers...)
	headers.InitOrUpdate(UserAgentKey, DefaultUserAgent)

	target := rawURL
	for hop := 0; ; hop++ {
		req, err := r.newRequest(ctx, method, target, headers, body)
		if err != nil {
			return nil, err
		}
		resp, err := r.client.Do(req)
		if err != nil {
			r.jar.OnResponse(Classify(err), nil, target)
			return nil, err
		}
		rep := r.jar.OnResponse(jar.ResultSuccess, HeaderLines(resp.Header), target)
		r.log.Debug("%s %s: %s, %d cookie(s) stored, %d discarded", method, target, resp.Status, rep.Stored, len(rep.Discarded))

		loc := resp.Header.Get("Location")
		if !isRedirect(resp.StatusCode) || loc == "" {
			return resp, nil
		}
		if hop >= r.maxRedirects {
			drain(resp.Body)
			return nil, fmt.Errorf("%w: exceeded %d hops (last URL: %s)", ErrTooManyRedirects, r.maxRedirects, target)
		}
		drain(resp.Body)
		next, err := resp.Request.URL.Parse(loc)
		if err != nil {
			return nil, fmt.Errorf("bad redirect location %q: %w", loc, err)
		}
		if !isHTTPScheme(next.Scheme) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrCrossProtocolRedirect, resp.Request.URL.Scheme, next.Scheme)
		}

		if next.Host != resp.Request.URL.Host {
			headers = headers.safe()
		}
		if rewritesToGet(resp.StatusCode, method) {
			method, body = http.MethodGet, nil
		}
		target = next.String()
	}
}

func (r *Request) newRequest(ctx context.Context, method, target string, headers Headers, body []byte) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, err
	}
	headers.Add(req.Header)
	if h, ok := r.jar.CookieHeaderFor(target); ok {
		req.Header.Add(CookieKey, h)
	}
	return req, nil
}

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// rewritesToGet follows net/http: 301, 302 and 303 turn into a body-less GET
// unless the method was HEAD.
func rewritesToGet(code int, method string) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther:
		return method != http.MethodGet && method != http.MethodHead
	}
	return false
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 2<<10))
	_ = body.Close()
}
