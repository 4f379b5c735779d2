package cookies

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat determines the cookie store format of the file at path.
func DetectFormat(path string) (Format, error) {
	if err := checkFile(path); err != nil {
		return FormatUnknown, err
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open cookie file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return FormatUnknown, fmt.Errorf("cannot read cookie file: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, sqliteMagic) {
		return detectSQLiteFormat(path)
	}

	firstLine, _, _ := strings.Cut(string(head), "\n")
	firstLine = strings.TrimRight(firstLine, "\r")
	if firstLine == netscapeHeader || firstLine == "# HTTP Cookie File" {
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("%w at %s", ErrUnsupportedFormat, path)
}

// detectSQLiteFormat checks which cookie table the database holds.
func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open SQLite database: %w", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&name); err == nil {
		return FormatFirefox, nil
	}
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&name); err == nil {
		return FormatChrome, nil
	}
	return FormatUnknown, fmt.Errorf("%w at %s", ErrUnsupportedFormat, path)
}
