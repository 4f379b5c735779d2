package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// ParseNetscape reads cookies for domain from a cookies.txt stream. Lines
// starting with # are comments, except #HttpOnly_ which marks the cookie
// HttpOnly. Malformed lines are skipped with a warning; an expiry of 0 is a
// session cookie.
func ParseNetscape(r io.Reader, domain string, now time.Time, l logger.Logger) ([]jar.Cookie, error) {
	l = logger.OrNop(l)
	var cookies []jar.Cookie

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			l.Warning("skipping malformed Netscape cookie line %d", lineNo)
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			l.Warning("skipping cookie %q with invalid expiry on line %d", fields[5], lineNo)
			continue
		}

		e := entry{
			name:     fields[5],
			value:    fields[6],
			host:     fields[0],
			path:     fields[2],
			secure:   strings.EqualFold(fields[3], "TRUE"),
			httpOnly: httpOnly,
		}
		if strings.EqualFold(fields[1], "TRUE") && !strings.HasPrefix(e.host, ".") {
			e.host = "." + e.host
		}
		if !matchesDomain(e.host, domain) {
			continue
		}
		if expiry > 0 {
			e.expires = time.Unix(expiry, 0).UTC()
			if e.expires.Before(now) {
				continue
			}
		}
		cookies = append(cookies, e.record(now))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

// WriteNetscape writes records in cookies.txt format. Domain cookies get a
// leading dot and TRUE in the subdomain column; session cookies get expiry 0.
func WriteNetscape(w io.Writer, cookies []jar.Cookie) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, netscapeHeader)
	fmt.Fprintln(bw, "# Written by warpjar. Contains secrets; keep private.")
	fmt.Fprintln(bw)
	for _, c := range cookies {
		host, sub := c.Domain, "FALSE"
		if !c.HostOnly {
			host, sub = "."+c.Domain, "TRUE"
		}
		if c.HttpOnly {
			host = httpOnlyPrefix + host
		}
		var expiry int64
		if c.Persistent {
			expiry = max(c.Expires.Unix(), 1)
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			host, sub, c.Path, netscapeBool(c.Secure), expiry, c.Name, c.Value)
	}
	return bw.Flush()
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
