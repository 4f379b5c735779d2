package jar

import "testing"

func TestURLComponents(t *testing.T) {
	tests := []struct {
		url    string
		scheme string
		domain string
		path   string
	}{
		{"https://www.example.com/dir/page?q=1#frag", "https", "www.example.com", "/dir/page"},
		{"http://example.com:8080/a", "http", "example.com", "/a"},
		{"http://example.com", "http", "example.com", ""},
		{"http://example.com?x=/y", "http", "example.com", ""},
		{"example.com/path", "", "example.com", "/path"},
		{"example.com:99", "", "example.com", ""},
		{"https://user:pw@host.test/p", "https", "host.test", "/p"},
		{"http://[::1]:8080/x", "http", "::1", "/x"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		if got := SchemeOf(tt.url); got != tt.scheme {
			t.Errorf("SchemeOf(%q) = %q; want %q", tt.url, got, tt.scheme)
		}
		if got := DomainOf(tt.url); got != tt.domain {
			t.Errorf("DomainOf(%q) = %q; want %q", tt.url, got, tt.domain)
		}
		if got := PathOf(tt.url); got != tt.path {
			t.Errorf("PathOf(%q) = %q; want %q", tt.url, got, tt.path)
		}
	}
}

func TestIsSecure(t *testing.T) {
	tests := map[string]bool{
		"https://a.com":  true,
		"HTTPS://a.com/": true,
		"http://a.com":   false,
		"a.com":          false,
		"wss://a.com":    false,
	}
	for u, want := range tests {
		if got := IsSecure(u); got != want {
			t.Errorf("IsSecure(%q) = %v; want %v", u, got, want)
		}
	}
}

func TestDomainMatch(t *testing.T) {
	tests := []struct {
		host, domain string
		want         bool
	}{
		{"www.example.com", "example.com", true},
		{"notexample.com", "example.com", false},
		{"example.com", "example.com", true},
		{"EXAMPLE.com", "example.COM", true},
		{"a.b.example.com", "example.com", true},
		{"example.com", "www.example.com", false},
		{"example.com", "", false},
		{"1.2.3.4", "3.4", false},
		{"1.2.3.4", "1.2.3.4", true},
	}
	for _, tt := range tests {
		if got := DomainMatch(tt.host, tt.domain); got != tt.want {
			t.Errorf("DomainMatch(%q, %q) = %v; want %v", tt.host, tt.domain, got, tt.want)
		}
	}
}

func TestPathMatch(t *testing.T) {
	tests := []struct {
		reqPath, cookiePath string
		want                bool
	}{
		{"/dir/sub", "/dir", true},
		{"/directory", "/dir", false},
		{"/dir", "/dir", true},
		{"/dir/", "/dir/", true},
		{"/dir/x", "/dir/", true},
		{"/", "/", true},
		{"/anything", "/", true},
		{"/di", "/dir", false},
	}
	for _, tt := range tests {
		if got := PathMatch(tt.reqPath, tt.cookiePath); got != tt.want {
			t.Errorf("PathMatch(%q, %q) = %v; want %v", tt.reqPath, tt.cookiePath, got, tt.want)
		}
	}
}

func TestDefaultPath(t *testing.T) {
	tests := map[string]string{
		"http://a.com":              "/",
		"http://a.com/":             "/",
		"http://a.com/login":        "/",
		"http://a.com/api/login":    "/api",
		"http://a.com/api/v1/":      "/api/v1",
		"http://a.com/a/b/c?x=/y/z": "/a/b",
	}
	for u, want := range tests {
		if got := DefaultPath(u); got != want {
			t.Errorf("DefaultPath(%q) = %q; want %q", u, got, want)
		}
	}
}
