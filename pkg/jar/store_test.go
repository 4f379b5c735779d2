package jar

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/warpdl/warpjar/pkg/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: testNow} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(t *testing.T) (*Store, *fakeClock, *logger.MockLogger) {
	t.Helper()
	clock := newFakeClock()
	log := logger.NewMockLogger()
	return New(&Options{Clock: clock.Now, Logger: log}), clock, log
}

func mustSet(t *testing.T, s *Store, url, line string) {
	t.Helper()
	if err := s.SetCookie(url, line); err != nil {
		t.Fatalf("SetCookie(%q, %q): %v", url, line, err)
	}
}

func TestStore_ReplaceKeepsCreation(t *testing.T) {
	s, clock, _ := newTestStore(t)
	mustSet(t, s, "http://a.com/", "sid=one")
	clock.Advance(time.Hour)
	mustSet(t, s, "http://a.com/", "sid=two")

	all := s.Cookies()
	if len(all) != 1 {
		t.Fatalf("expected one record, got %d", len(all))
	}
	if all[0].Value != "two" {
		t.Errorf("expected replaced value, got %q", all[0].Value)
	}
	if !all[0].Creation.Equal(testNow) {
		t.Errorf("Creation = %v; want original %v", all[0].Creation, testNow)
	}
	if !all[0].LastAccess.Equal(testNow.Add(time.Hour)) {
		t.Errorf("LastAccess = %v; want replacement time", all[0].LastAccess)
	}
}

func TestStore_KeyIncludesHttpOnly(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustSet(t, s, "http://a.com/", "sid=plain")
	mustSet(t, s, "http://a.com/", "sid=guarded; HttpOnly")
	if n := s.Len(); n != 2 {
		t.Fatalf("expected two records differing by HttpOnly, got %d", n)
	}
	mustSet(t, s, "http://a.com/", "sid=other; Path=/x")
	if n := s.Len(); n != 3 {
		t.Fatalf("expected path to be part of the key, got %d records", n)
	}
}

func TestStore_RetrieveEvictsExpired(t *testing.T) {
	s, clock, _ := newTestStore(t)
	mustSet(t, s, "http://a.com/", "short=1; Max-Age=10")
	mustSet(t, s, "http://a.com/", "long=1; Max-Age=1000")
	mustSet(t, s, "http://a.com/", "session=1")

	clock.Advance(11 * time.Second)
	got := s.Retrieve("http://a.com/")
	if len(got) != 2 {
		t.Fatalf("expected 2 live cookies, got %d", len(got))
	}
	for _, c := range got {
		if c.Name == "short" {
			t.Error("expired cookie was returned")
		}
	}
	if n := s.Len(); n != 2 {
		t.Errorf("expired record should be evicted, Len = %d", n)
	}
}

func TestStore_MaxAgeZeroDeletes(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustSet(t, s, "http://a.com/", "sid=1")
	mustSet(t, s, "http://a.com/", "sid=; Max-Age=0")
	if got := s.Retrieve("http://a.com/"); len(got) != 0 {
		t.Fatalf("expected deletion, got %+v", got)
	}
	if s.Len() != 0 {
		t.Error("expected deleted record to be evicted")
	}
}

func TestStore_SecureFromHTTPLeavesStoreEmpty(t *testing.T) {
	s, _, log := newTestStore(t)
	err := s.SetCookie("http://a.com/", "sid=1; Secure")
	if !errors.Is(err, ErrSecureFromInsecure) {
		t.Fatalf("expected ErrSecureFromInsecure, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d records", s.Len())
	}
	if len(log.Errors()) != 1 {
		t.Errorf("expected the violation logged at error level, got %v", log.Errors())
	}
}

func TestStore_InsecureCannotShadowSecure(t *testing.T) {
	s, _, log := newTestStore(t)
	mustSet(t, s, "https://a.com/", "sid=secret; Secure; Path=/app")

	err := s.SetCookie("http://a.com/app", "sid=evil; Path=/app/sub")
	if !errors.Is(err, ErrSecureShadowed) || !errors.Is(err, ErrPolicy) {
		t.Fatalf("expected ErrSecureShadowed, got %v", err)
	}
	err = s.SetCookie("http://www.a.com/", "sid=evil; Domain=a.com; Path=/app")
	if !errors.Is(err, ErrSecureShadowed) {
		t.Fatalf("expected domain-cookie shadowing rejected, got %v", err)
	}
	if len(log.Errors()) != 2 {
		t.Errorf("expected two error-level logs, got %v", log.Errors())
	}

	mustSet(t, s, "http://a.com/other", "sid=fine; Path=/other")
	mustSet(t, s, "http://a.com/", "other=fine; Path=/app")
	mustSet(t, s, "https://a.com/app", "sid=plain; Path=/app/x")

	all := s.Cookies()
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %+v", all)
	}
	if all[0].Value != "secret" {
		t.Errorf("secure record must survive, got %q", all[0].Value)
	}
}

func TestStore_HostOnlyVersusDomain(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustSet(t, s, "http://example.com/", "host=1")
	mustSet(t, s, "http://example.com/", "dom=1; Domain=example.com")

	names := func(url string) []string {
		var out []string
		for _, c := range s.Retrieve(url) {
			out = append(out, c.Name)
		}
		return out
	}

	if got := names("http://example.com/"); len(got) != 2 {
		t.Errorf("exact host should see both, got %v", got)
	}
	if got := names("http://sub.example.com/"); len(got) != 1 || got[0] != "dom" {
		t.Errorf("subdomain should see only the domain cookie, got %v", got)
	}
	if got := names("http://EXAMPLE.COM/"); len(got) != 2 {
		t.Errorf("host comparison should ignore case, got %v", got)
	}
	if got := names("http://notexample.com/"); len(got) != 0 {
		t.Errorf("unrelated host should see nothing, got %v", got)
	}
}

func TestStore_SecureAndPathMatching(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustSet(t, s, "https://a.com/", "sec=1; Secure; Path=/")
	mustSet(t, s, "https://a.com/", "api=1; Path=/api")

	if got := s.Retrieve("http://a.com/api/v1"); len(got) != 1 || got[0].Name != "api" {
		t.Errorf("secure cookie leaked over http: %+v", got)
	}
	if got := s.Retrieve("https://a.com/api/v1"); len(got) != 2 {
		t.Errorf("expected both cookies over https, got %+v", got)
	}
	if got := s.Retrieve("https://a.com/apiary"); len(got) != 1 || got[0].Name != "sec" {
		t.Errorf("/api must not match /apiary: %+v", got)
	}
	if got := s.Retrieve("https://a.com"); len(got) != 1 {
		t.Errorf("empty path should match as /: %+v", got)
	}
}

func TestStore_RetrieveNewestFirst(t *testing.T) {
	s, _, _ := newTestStore(t)
	mustSet(t, s, "http://a.com/", "first=1")
	mustSet(t, s, "http://a.com/", "second=2")
	mustSet(t, s, "http://a.com/", "third=3")

	h, ok := s.CookieHeaderFor("http://a.com/")
	if !ok || h != "third=3; second=2; first=1" {
		t.Errorf("CookieHeaderFor = (%q, %v)", h, ok)
	}

	// Replacement moves the record to the newest position.
	mustSet(t, s, "http://a.com/", "first=again")
	h, _ = s.CookieHeaderFor("http://a.com/")
	if h != "first=again; third=3; second=2" {
		t.Errorf("after replace: %q", h)
	}
}

func TestStore_CookieHeaderForNoMatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	if h, ok := s.CookieHeaderFor("http://a.com/"); ok || h != "" {
		t.Errorf("expected absent header, got (%q, %v)", h, ok)
	}
}

func TestStore_RetrieveBumpsLastAccessAndCopies(t *testing.T) {
	s, clock, _ := newTestStore(t)
	mustSet(t, s, "http://a.com/", "sid=1")
	clock.Advance(time.Minute)

	got := s.Retrieve("http://a.com/")
	if len(got) != 1 || !got[0].LastAccess.Equal(testNow.Add(time.Minute)) {
		t.Fatalf("expected LastAccess bump, got %+v", got)
	}
	got[0].Value = "mutated"
	if s.Cookies()[0].Value != "1" {
		t.Error("Retrieve must return copies")
	}
	if !s.Cookies()[0].LastAccess.Equal(testNow.Add(time.Minute)) {
		t.Error("stored record LastAccess not updated")
	}
}

func TestStore_RestoreAndRemove(t *testing.T) {
	var changes []Change
	clock := newFakeClock()
	s := New(&Options{Clock: clock.Now, OnChange: func(c Change) { changes = append(changes, c) }})

	n := s.Restore([]Cookie{
		{Name: "p", Value: "1", Domain: "a.com", Path: "/", Persistent: true, Expires: testNow.Add(time.Hour)},
		{Name: "s", Value: "2", Domain: "a.com", Path: "/", HostOnly: true},
		{Name: "old", Value: "3", Domain: "a.com", Path: "/", Persistent: true, Expires: testNow.Add(-time.Hour)},
		{Name: "nopath", Value: "4", Domain: "a.com"},
	})
	if n != 2 || s.Len() != 2 {
		t.Fatalf("Restore inserted %d, Len %d; want 2", n, s.Len())
	}
	if c := s.Cookies()[0]; !c.Creation.Equal(testNow) || !c.LastAccess.Equal(testNow) {
		t.Errorf("zero times should be filled: %+v", c)
	}

	if removed := s.RemoveSession(); removed != 1 || s.Len() != 1 {
		t.Errorf("RemoveSession removed %d, Len %d", removed, s.Len())
	}
	clock.Advance(2 * time.Hour)
	if removed := s.RemoveExpired(); removed != 1 || s.Len() != 0 {
		t.Errorf("RemoveExpired removed %d, Len %d", removed, s.Len())
	}

	s.Restore([]Cookie{{Name: "x", Domain: "a.com", Path: "/"}})
	if removed := s.Clear(); removed != 1 || s.Len() != 0 {
		t.Errorf("Clear removed %d", removed)
	}

	want := []ChangeKind{ChangeStored, ChangeStored, ChangeEvicted, ChangeEvicted, ChangeStored, ChangeCleared}
	if len(changes) != len(want) {
		t.Fatalf("changes = %+v", changes)
	}
	for i, k := range want {
		if changes[i].Kind != k {
			t.Errorf("change %d = %s; want %s", i, changes[i].Kind, k)
		}
	}
}

func TestStore_OnChangeMayReenter(t *testing.T) {
	var s *Store
	seen := 0
	s = New(&Options{OnChange: func(Change) { seen += s.Len() }})
	mustSet(t, s, "http://a.com/", "a=1")
	if seen != 1 {
		t.Errorf("expected callback to observe the stored record, got %d", seen)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = s.SetCookie("http://a.com/", fmt.Sprintf("c%d=%d", i, j))
				s.Retrieve("http://a.com/")
			}
		}(i)
	}
	wg.Wait()
	if n := s.Len(); n != 20 {
		t.Errorf("expected 20 records, got %d", n)
	}
}
