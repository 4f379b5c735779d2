package cookies

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/warpdl/warpjar/pkg/jar"
	_ "modernc.org/sqlite"
)

// firefoxSameSite maps moz_cookies.sameSite to a policy.
func firefoxSameSite(v int) jar.SameSite {
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

// ParseFirefox reads unexpired cookies for domain from a Firefox
// cookies.sqlite file. dbPath should point at a copy, not the live database.
func ParseFirefox(dbPath, domain string, now time.Time) ([]jar.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("cannot open Firefox cookie database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
        SELECT name, value, host, path, expiry, creationTime, isSecure, isHttpOnly, sameSite
        FROM moz_cookies
        WHERE expiry > ?
        ORDER BY creationTime ASC, name ASC
    `, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query Firefox cookies: %w", err)
	}
	defer rows.Close()

	var cookies []jar.Cookie
	for rows.Next() {
		var (
			e                              entry
			expiry, created                int64
			isSecure, isHttpOnly, sameSite int
		)
		if err := rows.Scan(&e.name, &e.value, &e.host, &e.path, &expiry, &created, &isSecure, &isHttpOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("failed to scan Firefox cookie row: %w", err)
		}
		if !matchesDomain(e.host, domain) {
			continue
		}
		e.expires = time.Unix(expiry, 0).UTC()
		if created > 0 {
			e.created = time.UnixMicro(created).UTC()
		}
		e.secure, e.httpOnly = isSecure != 0, isHttpOnly != 0
		e.sameSite = firefoxSameSite(sameSite)
		cookies = append(cookies, e.record(now))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate Firefox cookie rows: %w", err)
	}
	return cookies, nil
}
