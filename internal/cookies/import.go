package cookies

import (
	"os"
	"path/filepath"
	"time"

	"github.com/warpdl/warpjar/pkg/jar"
	"github.com/warpdl/warpjar/pkg/logger"
)

// ImportCookies reads the cookies for domain (all cookies when domain is
// empty) from the browser store at sourcePath. SQLite stores are copied
// before being opened.
func ImportCookies(sourcePath, domain string, l logger.Logger) ([]jar.Cookie, *Source, error) {
	l = logger.OrNop(l)
	format, err := DetectFormat(sourcePath)
	if err != nil {
		return nil, nil, err
	}
	source := &Source{Path: sourcePath, Format: format}
	now := time.Now()

	var cookies []jar.Cookie
	switch format {
	case FormatFirefox:
		cookies, err = importSQLite(sourcePath, domain, now, ParseFirefox)
	case FormatChrome:
		cookies, err = importSQLite(sourcePath, domain, now, ParseChrome)
	default:
		var f *os.File
		if f, err = os.Open(sourcePath); err == nil {
			cookies, err = ParseNetscape(f, domain, now, l)
			f.Close()
		}
	}
	if err != nil {
		return nil, nil, err
	}
	l.Debug("imported %d cookie(s) for %q from %s store %s", len(cookies), domain, format, sourcePath)
	return cookies, source, nil
}

type sqliteParser func(dbPath, domain string, now time.Time) ([]jar.Cookie, error)

func importSQLite(sourcePath, domain string, now time.Time, parse sqliteParser) ([]jar.Cookie, error) {
	tempDir, cleanup, err := SafeCopy(sourcePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return parse(filepath.Join(tempDir, filepath.Base(sourcePath)), domain, now)
}
