package jar

import (
	"errors"
	"strings"
)

// Result is the outcome the transport reports for a request.
type Result int

const (
	ResultSuccess Result = iota
	ResultCantConnect
	ResultCantResolve
	ResultTLSHandshakeError
	ResultNoResponse
	ResultTimeout
	ResultRedirectLimitReached
	ResultRequestFailed
)

// String returns the result's name as used in log lines.
func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultCantConnect:
		return "cant_connect"
	case ResultCantResolve:
		return "cant_resolve"
	case ResultTLSHandshakeError:
		return "tls_handshake_error"
	case ResultNoResponse:
		return "no_response"
	case ResultTimeout:
		return "timeout"
	case ResultRedirectLimitReached:
		return "redirect_limit_reached"
	default:
		return "request_failed"
	}
}

// Report summarises what OnResponse did with a response's headers.
type Report struct {
	Stored    int
	Discarded []error
}

// OnResponse processes the header lines of a response to requestURL. Lines
// carrying the Set-Cookie header name (any case, e.g. "set-cookie: a=1") are
// parsed, finalized and stored in order. Other headers, including
// Set-Cookie2, are skipped.
//
// A non-success result means there is nothing to process. Discards are
// logged and reported, never returned as a failure.
func (s *Store) OnResponse(result Result, headers []string, requestURL string) Report {
	var rep Report
	if result != ResultSuccess {
		s.log.Debug("skipping cookies for %s: %s", requestURL, result)
		return rep
	}
	for _, line := range headers {
		if _, ok := cutHeaderName(line); !ok {
			continue
		}
		if err := s.SetCookie(requestURL, line); err != nil {
			rep.Discarded = append(rep.Discarded, err)
			continue
		}
		rep.Stored++
	}
	return rep
}

// SetCookie parses, finalizes and stores a single Set-Cookie line received
// from requestURL. The returned error, if any, matches ErrDiscarded.
func (s *Store) SetCookie(requestURL, line string) error {
	now := s.Now()
	sc, err := ParseSetCookie(line, now)
	if err != nil {
		s.logDiscard("", lowerHost(requestURL), err)
		return err
	}
	c, err := finalize(sc, requestURL, now, s.psl)
	if err != nil {
		s.logDiscard(sc.Name, lowerHost(requestURL), err)
		return err
	}
	if err := s.save(requestURL, c); err != nil {
		s.logDiscard(c.Name, c.Domain, err)
		return err
	}
	return nil
}

func (s *Store) logDiscard(name, domain string, err error) {
	if errors.Is(err, ErrPolicy) {
		s.log.Error("rejected cookie %q for %s: %v", name, domain, err)
		return
	}
	s.log.Warning("ignored cookie %q for %s: %v", name, domain, err)
}

func lowerHost(rawURL string) string {
	return strings.ToLower(DomainOf(rawURL))
}
