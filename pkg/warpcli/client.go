// Package warpcli is a Go client for the warpjar JSON-RPC daemon.
package warpcli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/warpjar/internal/server"
)

var (
	ErrEmptyURL          = errors.New("daemon url cannot be empty")
	ErrUnsupportedScheme = errors.New("unsupported daemon url scheme")
)

// Client calls the daemon's /jsonrpc endpoint. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	secret string
	rpc    *jrpc2.Client
}

// bearerClient adds the daemon secret to every request.
type bearerClient struct {
	hc     *http.Client
	secret string
}

func (b *bearerClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+b.secret)
	return b.hc.Do(req)
}

// NewClient returns a client for the daemon at daemonURL, e.g.
// "http://127.0.0.1:6810".
func NewClient(daemonURL, secret string) (*Client, error) {
	daemonURL = strings.TrimRight(strings.TrimSpace(daemonURL), "/")
	if daemonURL == "" {
		return nil, ErrEmptyURL
	}
	base, err := url.Parse(daemonURL)
	if err != nil {
		return nil, fmt.Errorf("parse daemon url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, base.Scheme)
	}
	ch := jhttp.NewChannel(daemonURL+"/jsonrpc", &jhttp.ChannelOptions{
		Client: &bearerClient{hc: http.DefaultClient, secret: secret},
	})
	return &Client{
		base:   base,
		secret: secret,
		rpc:    jrpc2.NewClient(ch, nil),
	}, nil
}

// Close releases the client's connection. Calls made afterwards fail.
func (c *Client) Close() error {
	return c.rpc.Close()
}

func invoke[T any](ctx context.Context, c *Client, method string, params any) (*T, error) {
	var out T
	if err := c.rpc.CallResult(ctx, method, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Version returns the daemon's version and commit.
func (c *Client) Version(ctx context.Context) (*server.VersionResult, error) {
	return invoke[server.VersionResult](ctx, c, "system.getVersion", nil)
}

// Store hands the daemon the header lines of a response received from rawURL.
func (c *Client) Store(ctx context.Context, rawURL string, headers []string) (*server.StoreResult, error) {
	return invoke[server.StoreResult](ctx, c, "cookie.store", &server.StoreParams{URL: rawURL, Headers: headers})
}

// Header returns the Cookie header for a request to rawURL. ok is false when
// no cookie matches.
func (c *Client) Header(ctx context.Context, rawURL string) (header string, ok bool, err error) {
	res, err := invoke[server.HeaderResult](ctx, c, "cookie.header", &server.URLParam{URL: rawURL})
	if err != nil {
		return "", false, err
	}
	return res.Header, res.Present, nil
}

// List returns the cookies matching rawURL, or every cookie when rawURL is
// empty. Values are only included when values is set.
func (c *Client) List(ctx context.Context, rawURL string, values bool) ([]server.CookieInfo, error) {
	res, err := invoke[server.ListResult](ctx, c, "cookie.list", &server.ListParams{URL: rawURL, Values: values})
	if err != nil {
		return nil, err
	}
	return res.Cookies, nil
}

// Clear removes every cookie and returns how many were removed.
func (c *Client) Clear(ctx context.Context) (int, error) {
	return c.clear(ctx, nil)
}

// EndSession drops the daemon's session cookies, the ones without
// Expires or Max-Age, and returns how many were removed. Persistent
// cookies are kept.
func (c *Client) EndSession(ctx context.Context) (int, error) {
	return c.clear(ctx, &server.ClearParams{Session: true})
}

func (c *Client) clear(ctx context.Context, p *server.ClearParams) (int, error) {
	var params any
	if p != nil {
		params = p
	}
	res, err := invoke[server.ClearResult](ctx, c, "cookie.clear", params)
	if err != nil {
		return 0, err
	}
	return res.Removed, nil
}
