package jarhttp

import (
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

var (
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
)

var supportedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// NewClient returns an HTTP client that never follows redirects itself, so
// Request can store cookies from every hop. proxyURL may be empty, or an
// http, https or socks5 URL with optional credentials.
func NewClient(proxyURL string) (*http.Client, error) {
	client := &http.Client{CheckRedirect: stopRedirects}
	if proxyURL == "" {
		return client, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, ErrInvalidProxyURL
	}
	if !supportedSchemes[parsed.Scheme] {
		return nil, ErrUnsupportedScheme
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if parsed.Scheme == "socks5" {
		var auth *proxy.Auth
		if parsed.User != nil {
			pass, _ := parsed.User.Password()
			auth = &proxy.Auth{User: parsed.User.Username(), Password: pass}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		}
	} else {
		transport.Proxy = http.ProxyURL(parsed)
	}
	client.Transport = transport
	return client, nil
}

func stopRedirects(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}
