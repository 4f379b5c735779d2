package jarhttp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"

	"github.com/warpdl/warpjar/pkg/jar"
)

// Classify maps a transport error to the result code reported to the jar.
func Classify(err error) jar.Result {
	if err == nil {
		return jar.ResultSuccess
	}
	var (
		netErr   net.Error
		dnsErr   *net.DNSError
		opErr    *net.OpError
		recErr   tls.RecordHeaderError
		verifErr *tls.CertificateVerificationError
		authErr  x509.UnknownAuthorityError
		hostErr  x509.HostnameError
		certErr  x509.CertificateInvalidError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return jar.ResultTimeout
	case errors.As(err, &dnsErr):
		return jar.ResultCantResolve
	case errors.As(err, &recErr), errors.As(err, &verifErr),
		errors.As(err, &authErr), errors.As(err, &hostErr), errors.As(err, &certErr):
		return jar.ResultTLSHandshakeError
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return jar.ResultCantConnect
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return jar.ResultNoResponse
	case errors.Is(err, ErrTooManyRedirects):
		return jar.ResultRedirectLimitReached
	default:
		return jar.ResultRequestFailed
	}
}
