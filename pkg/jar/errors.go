package jar

import (
	"errors"
	"fmt"
)

var (
	// ErrDiscarded is matched by every error that caused a cookie to be dropped.
	ErrDiscarded = errors.New("cookie discarded")
	// ErrPolicy is matched by discards caused by a security-policy violation.
	ErrPolicy = errors.New("security policy violation")
)

// Malformed input.
var (
	ErrControlChar    = errors.New("header contains control characters")
	ErrEmptyCookie    = errors.New("cookie name and value are both empty")
	ErrCookieTooLarge = errors.New("cookie name and value exceed 4096 bytes")
	ErrInvalidURL     = errors.New("request url has no host")
	ErrInvalidDate    = errors.New("invalid cookie date")
	ErrNotSetCookie   = errors.New("header line is not a Set-Cookie header")
)

// Security-policy violations.
var (
	ErrDomainNotASCII       = errors.New("domain attribute is not ascii")
	ErrDomainMismatch       = errors.New("domain attribute does not match request host")
	ErrPublicSuffix         = errors.New("domain attribute is a public suffix")
	ErrSecureFromInsecure   = errors.New("secure cookie set from insecure origin")
	ErrSameSiteNoneInsecure = errors.New("samesite=none cookie is not secure")
	ErrPrefixRules          = errors.New("cookie violates name prefix rules")
	ErrSecureShadowed       = errors.New("insecure cookie would shadow a secure cookie")
)

func malformed(reason error) error {
	return fmt.Errorf("%w: %w", ErrDiscarded, reason)
}

func violation(reason error) error {
	return fmt.Errorf("%w: %w: %w", ErrDiscarded, ErrPolicy, reason)
}
