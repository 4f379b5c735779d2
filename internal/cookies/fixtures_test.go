package cookies

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type firefoxRow struct {
	Name, Value, Host, Path string
	Expiry                  int64
	IsSecure, IsHttpOnly    int
	SameSite                int
}

// createFirefoxFixture writes a moz_cookies database under dir.
func createFirefoxFixture(t *testing.T, dir string, rows []firefoxRow) string {
	t.Helper()
	dbPath := filepath.Join(dir, "cookies.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE moz_cookies (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        host TEXT NOT NULL,
        path TEXT NOT NULL DEFAULT '/',
        expiry INTEGER NOT NULL DEFAULT 0,
        creationTime INTEGER NOT NULL DEFAULT 0,
        isSecure INTEGER NOT NULL DEFAULT 0,
        isHttpOnly INTEGER NOT NULL DEFAULT 0,
        sameSite INTEGER NOT NULL DEFAULT 0
    )`)
	if err != nil {
		t.Fatalf("failed to create moz_cookies table: %v", err)
	}
	for i, r := range rows {
		created := testNow.Add(time.Duration(i) * time.Second).UnixMicro()
		_, err = db.Exec(`INSERT INTO moz_cookies (name, value, host, path, expiry, creationTime, isSecure, isHttpOnly, sameSite)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Name, r.Value, r.Host, r.Path, r.Expiry, created, r.IsSecure, r.IsHttpOnly, r.SameSite)
		if err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

type chromeRow struct {
	Name, Value, Host, Path string
	ExpiresUTC              int64
	HasExpires              int
	IsSecure, IsHttpOnly    int
	SameSite                int
	EncryptedValue          []byte
}

// createChromeFixture writes a Chrome cookies database under dir.
func createChromeFixture(t *testing.T, dir string, rows []chromeRow) string {
	t.Helper()
	dbPath := filepath.Join(dir, "Cookies")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE cookies (
        creation_utc INTEGER NOT NULL,
        host_key TEXT NOT NULL,
        name TEXT NOT NULL,
        value TEXT NOT NULL,
        encrypted_value BLOB DEFAULT '',
        path TEXT NOT NULL,
        expires_utc INTEGER NOT NULL,
        has_expires INTEGER NOT NULL DEFAULT 1,
        is_secure INTEGER NOT NULL,
        is_httponly INTEGER NOT NULL,
        samesite INTEGER NOT NULL DEFAULT -1
    )`)
	if err != nil {
		t.Fatalf("failed to create cookies table: %v", err)
	}
	for i, r := range rows {
		created := toChromeTime(testNow.Add(time.Duration(i) * time.Second))
		_, err = db.Exec(`INSERT INTO cookies (creation_utc, host_key, name, value, encrypted_value, path, expires_utc, has_expires, is_secure, is_httponly, samesite)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			created, r.Host, r.Name, r.Value, r.EncryptedValue, r.Path, r.ExpiresUTC, r.HasExpires, r.IsSecure, r.IsHttpOnly, r.SameSite)
		if err != nil {
			t.Fatalf("failed to insert row: %v", err)
		}
	}
	return dbPath
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return p
}
