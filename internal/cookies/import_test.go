package cookies

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/warpdl/warpjar/pkg/jar"
)

func TestDetectFormat(t *testing.T) {
	dir := t.TempDir()
	future := time.Now().Add(time.Hour).Unix()
	ff := createFirefoxFixture(t, dir, []firefoxRow{{"a", "1", "a.com", "/", future, 0, 0, 0}})
	chromeDir := filepath.Join(dir, "chrome")
	os.Mkdir(chromeDir, 0755)
	ch := createChromeFixture(t, chromeDir, nil)
	ns := writeFile(t, dir, "cookies.txt", "# Netscape HTTP Cookie File\n")
	alt := writeFile(t, dir, "alt.txt", "# HTTP Cookie File\r\n")
	junk := writeFile(t, dir, "junk.txt", "hello world\n")
	empty := writeFile(t, dir, "empty.txt", "")

	tests := []struct {
		path    string
		want    Format
		wantErr error
	}{
		{ff, FormatFirefox, nil},
		{ch, FormatChrome, nil},
		{ns, FormatNetscape, nil},
		{alt, FormatNetscape, nil},
		{junk, FormatUnknown, ErrUnsupportedFormat},
		{empty, FormatUnknown, ErrEmptyFile},
		{dir, FormatUnknown, ErrIsDirectory},
		{filepath.Join(dir, "missing"), FormatUnknown, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if got != tt.want || !errors.Is(err, tt.wantErr) {
				t.Errorf("DetectFormat() = %s, %v; want %s, %v", got, err, tt.want, tt.wantErr)
			}
		})
	}
}

func TestImportCookies_IntoStore(t *testing.T) {
	dir := t.TempDir()
	future := time.Now().Add(time.Hour).Unix()
	dbPath := createFirefoxFixture(t, dir, []firefoxRow{
		{"sid", "abc", ".example.com", "/", future, 1, 0, 1},
		{"other", "x", "other.com", "/", future, 0, 0, 0},
	})

	cookies, src, err := ImportCookies(dbPath, "example.com", nil)
	if err != nil {
		t.Fatalf("ImportCookies: %v", err)
	}
	if src.Format != FormatFirefox || src.Path != dbPath {
		t.Errorf("unexpected source: %+v", src)
	}

	store := jar.New(nil)
	if n := store.Restore(cookies); n != 1 {
		t.Fatalf("restored %d", n)
	}
	if h, ok := store.CookieHeaderFor("https://www.example.com/"); !ok || h != "sid=abc" {
		t.Errorf("header = %q, %v", h, ok)
	}
	if _, ok := store.CookieHeaderFor("http://www.example.com/"); ok {
		t.Error("secure imported cookie must not be sent over http")
	}
}

func TestImportCookies_Netscape(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	p := writeFile(t, t.TempDir(), "cookies.txt",
		fmt.Sprintf("# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tFALSE\t%d\tsid\tv\n", future))
	cookies, src, err := ImportCookies(p, "example.com", nil)
	if err != nil || len(cookies) != 1 || src.Format != FormatNetscape {
		t.Fatalf("ImportCookies = %+v, %+v, %v", cookies, src, err)
	}
}

func TestImportCookies_Errors(t *testing.T) {
	if _, _, err := ImportCookies("/nonexistent/file", "example.com", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSafeCopy(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "cookies.sqlite", "main")
	writeFile(t, dir, "cookies.sqlite-wal", "wal")

	tempDir, cleanup, err := SafeCopy(src)
	if err != nil {
		t.Fatalf("SafeCopy: %v", err)
	}
	for name, want := range map[string]string{"cookies.sqlite": "main", "cookies.sqlite-wal": "wal"} {
		got, err := os.ReadFile(filepath.Join(tempDir, name))
		if err != nil || string(got) != want {
			t.Errorf("%s = %q, %v", name, got, err)
		}
	}
	if _, err := os.Stat(filepath.Join(tempDir, "cookies.sqlite-shm")); !os.IsNotExist(err) {
		t.Error("absent companion must not be created")
	}
	cleanup()
	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Error("cleanup should remove the temp dir")
	}
}
