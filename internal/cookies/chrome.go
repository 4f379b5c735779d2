package cookies

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/warpdl/warpjar/pkg/jar"
	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT
// epoch (1601-01-01) and the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

// chromeTime converts microseconds since 1601-01-01 to a time.
func chromeTime(usec int64) time.Time {
	return time.UnixMicro(usec - chromeEpochOffsetSeconds*1_000_000).UTC()
}

func toChromeTime(t time.Time) int64 {
	return t.UnixMicro() + chromeEpochOffsetSeconds*1_000_000
}

// chromeSameSite maps cookies.samesite to a policy.
func chromeSameSite(v int) jar.SameSite {
	switch v {
	case 0:
		return jar.SameSiteNone
	case 1:
		return jar.SameSiteLax
	case 2:
		return jar.SameSiteStrict
	default:
		return jar.SameSiteDefault
	}
}

// ParseChrome reads cookies for domain from a Chrome Cookies file. Rows whose
// value is only available encrypted are skipped, as are expired rows.
// Session cookies (has_expires = 0) are kept.
func ParseChrome(dbPath, domain string, now time.Time) ([]jar.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("cannot open Chrome cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, has_expires, creation_utc,
               is_secure, is_httponly, samesite
        FROM cookies
        WHERE value != ''
          AND (has_expires = 0 OR expires_utc > ?)
        ORDER BY creation_utc ASC, name ASC
    `, toChromeTime(now))
	if err != nil {
		return nil, fmt.Errorf("failed to query Chrome cookies: %w", err)
	}
	defer rows.Close()

	var cookies []jar.Cookie
	for rows.Next() {
		var (
			e                                          entry
			expiresUTC, creationUTC                    int64
			hasExpires, isSecure, isHttpOnly, sameSite int
		)
		if err := rows.Scan(&e.name, &e.value, &e.host, &e.path, &expiresUTC, &hasExpires, &creationUTC,
			&isSecure, &isHttpOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("failed to scan Chrome cookie row: %w", err)
		}
		if !matchesDomain(e.host, domain) {
			continue
		}
		if hasExpires != 0 {
			e.expires = chromeTime(expiresUTC)
		}
		if creationUTC > 0 {
			e.created = chromeTime(creationUTC)
		}
		e.secure, e.httpOnly = isSecure != 0, isHttpOnly != 0
		e.sameSite = chromeSameSite(sameSite)
		cookies = append(cookies, e.record(now))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate Chrome cookie rows: %w", err)
	}
	return cookies, nil
}
