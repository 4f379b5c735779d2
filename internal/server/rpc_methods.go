package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// Custom JSON-RPC error codes.
const (
	codePersistFailed = jrpc2.Code(-32001)
	codeInvalidParams = jrpc2.Code(-32602)
)

// Saver persists the jar after a mutating call. *credman.Vault satisfies it.
type Saver interface {
	SaveFrom(*jar.Store) error
}

// RPCConfig holds configuration for the JSON-RPC endpoints.
type RPCConfig struct {
	Secret  string // auth token; empty disables RPC
	Version string
	Commit  string
}

// RPCServer exposes a jar over JSON-RPC 2.0.
type RPCServer struct {
	methods  handler.Map
	bridge   jhttp.Bridge
	closing  sync.Once
	secret   string
	version  string
	commit   string
	store    *jar.Store
	saver    Saver
	notifier *Notifier
	log      logger.Logger
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

// StoreParams is the input for cookie.store: the header lines of a response
// received from URL.
type StoreParams struct {
	URL     string   `json:"url"`
	Headers []string `json:"headers"`
}

// StoreResult is the response for cookie.store. Stored counts the cookies
// kept; Discarded holds one reason per rejected Set-Cookie line, in order.
type StoreResult struct {
	Stored    int      `json:"stored"`
	Discarded []string `json:"discarded,omitempty"`
}

// URLParam is a common input with just a request URL.
type URLParam struct {
	URL string `json:"url"`
}

// HeaderResult is the response for cookie.header. Present is false, and
// Header empty, when no stored cookie matches the URL.
type HeaderResult struct {
	Header  string `json:"header,omitempty"`
	Present bool   `json:"present"`
}

// ListParams is the input for cookie.list. Without URL every record is
// listed. Values are included only on request.
type ListParams struct {
	URL    string `json:"url,omitempty"`
	Values bool   `json:"values,omitempty"`
}

// CookieInfo is a single entry in the cookie.list response. Value is only
// filled in when the caller asked for values. Expires is nil for session
// cookies.
type CookieInfo struct {
	Name       string     `json:"name"`
	Value      string     `json:"value,omitempty"`
	Domain     string     `json:"domain"`
	Path       string     `json:"path"`
	HostOnly   bool       `json:"hostOnly"`
	Secure     bool       `json:"secure"`
	HttpOnly   bool       `json:"httpOnly"`
	SameSite   string     `json:"sameSite"`
	Persistent bool       `json:"persistent"`
	Expires    *time.Time `json:"expires,omitempty"`
	Created    time.Time  `json:"created"`
}

// ListResult is the response for cookie.list.
type ListResult struct {
	Cookies []CookieInfo `json:"cookies"`
}

// ClearParams is the optional input for cookie.clear. With Session set only
// session cookies are dropped, ending the logical session; persistent
// cookies and the vault are left alone.
type ClearParams struct {
	Session bool `json:"session,omitempty"`
}

// ClearResult reports how many records cookie.clear removed.
type ClearResult struct {
	Removed int `json:"removed"`
}

// NewRPCServer creates an RPCServer with its method table and HTTP bridge.
// saver and notifier may be nil: without a saver mutations stay in memory,
// and without a notifier a private one is created so websocket clients
// still get pushes.
func NewRPCServer(cfg *RPCConfig, store *jar.Store, saver Saver, notifier *Notifier, l logger.Logger) *RPCServer {
	if notifier == nil {
		notifier = NewNotifier(l)
	}
	rs := &RPCServer{
		secret:   cfg.Secret,
		version:  cfg.Version,
		commit:   cfg.Commit,
		store:    store,
		saver:    saver,
		notifier: notifier,
		log:      logger.OrNop(l),
	}
	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"cookie.store":      handler.New(rs.cookieStore),
		"cookie.header":     handler.New(rs.cookieHeader),
		"cookie.list":       handler.New(rs.cookieList),
		"cookie.clear":      handler.New(rs.cookieClear),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{Version: rs.version, Commit: rs.commit}, nil
}

func requireURL(u string) error {
	if u == "" {
		return &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	if jar.DomainOf(u) == "" {
		return &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: no host"}
	}
	return nil
}

// cookieStore feeds response headers to the jar. Discards are reported, not
// returned as errors.
func (rs *RPCServer) cookieStore(_ context.Context, p *StoreParams) (*StoreResult, error) {
	if err := requireURL(p.URL); err != nil {
		return nil, err
	}
	rep := rs.store.OnResponse(jar.ResultSuccess, p.Headers, p.URL)
	res := &StoreResult{Stored: rep.Stored}
	for _, err := range rep.Discarded {
		res.Discarded = append(res.Discarded, err.Error())
	}
	if rep.Stored > 0 {
		if err := rs.persist(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// cookieHeader returns the Cookie header a request to the URL would carry.
func (rs *RPCServer) cookieHeader(_ context.Context, p *URLParam) (*HeaderResult, error) {
	if err := requireURL(p.URL); err != nil {
		return nil, err
	}
	h, ok := rs.store.CookieHeaderFor(p.URL)
	return &HeaderResult{Header: h, Present: ok}, nil
}

// cookieList lists the records matching a URL, or every live record.
func (rs *RPCServer) cookieList(_ context.Context, p *ListParams) (*ListResult, error) {
	var cookies []jar.Cookie
	if p.URL != "" {
		if err := requireURL(p.URL); err != nil {
			return nil, err
		}
		cookies = rs.store.Retrieve(p.URL)
	} else {
		rs.store.RemoveExpired()
		cookies = rs.store.Cookies()
	}
	res := &ListResult{Cookies: make([]CookieInfo, 0, len(cookies))}
	for _, c := range cookies {
		res.Cookies = append(res.Cookies, toInfo(c, p.Values))
	}
	return res, nil
}

// cookieClear empties the jar, or only ends the session.
func (rs *RPCServer) cookieClear(_ context.Context, p *ClearParams) (*ClearResult, error) {
	if p != nil && p.Session {
		return &ClearResult{Removed: rs.store.RemoveSession()}, nil
	}
	n := rs.store.Clear()
	if err := rs.persist(); err != nil {
		return nil, err
	}
	return &ClearResult{Removed: n}, nil
}

// persist saves the jar through the saver and maps a failure to
// codePersistFailed.
func (rs *RPCServer) persist() error {
	if rs.saver == nil {
		return nil
	}
	if err := rs.saver.SaveFrom(rs.store); err != nil {
		rs.log.Error("failed to persist cookie vault: %v", err)
		return &jrpc2.Error{Code: codePersistFailed, Message: "failed to persist cookies"}
	}
	return nil
}

func toInfo(c jar.Cookie, withValue bool) CookieInfo {
	info := CookieInfo{
		Name:       c.Name,
		Domain:     c.Domain,
		Path:       c.Path,
		HostOnly:   c.HostOnly,
		Secure:     c.Secure,
		HttpOnly:   c.HttpOnly,
		SameSite:   c.SameSite.String(),
		Persistent: c.Persistent,
		Created:    c.Creation,
	}
	if withValue {
		info.Value = c.Value
	}
	if c.Persistent {
		exp := c.Expires
		info.Expires = &exp
	}
	return info
}

// Handler returns the HTTP handler serving /jsonrpc and /jsonrpc/ws.
func (rs *RPCServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /jsonrpc", requireToken(rs.secret, rs.bridge))
	mux.Handle("GET /jsonrpc/ws", requireToken(rs.secret, http.HandlerFunc(rs.serveWebSocket)))
	return mux
}

// Close shuts down the jrpc2 bridge. It is safe to call more than once.
func (rs *RPCServer) Close() {
	rs.closing.Do(func() { rs.bridge.Close() })
}
