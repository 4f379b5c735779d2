package jarhttp

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"testing"

	"github.com/warpdl/warpjar/pkg/jar"
)

func TestClassify(t *testing.T) {
	wrap := func(err error) error {
		return &url.Error{Op: "Get", URL: "http://a.com", Err: err}
	}
	tests := []struct {
		name string
		err  error
		want jar.Result
	}{
		{"nil", nil, jar.ResultSuccess},
		{"deadline", wrap(context.DeadlineExceeded), jar.ResultTimeout},
		{"dns", wrap(&net.DNSError{Err: "no such host", Name: "a.com"}), jar.ResultCantResolve},
		{"dial", wrap(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}), jar.ResultCantConnect},
		{"read", wrap(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("reset")}), jar.ResultRequestFailed},
		{"tls", wrap(x509.UnknownAuthorityError{}), jar.ResultTLSHandshakeError},
		{"eof", wrap(io.EOF), jar.ResultNoResponse},
		{"redirects", fmt.Errorf("%w: too many", ErrTooManyRedirects), jar.ResultRedirectLimitReached},
		{"other", errors.New("boom"), jar.ResultRequestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %s; want %s", got, tt.want)
			}
		})
	}
}
