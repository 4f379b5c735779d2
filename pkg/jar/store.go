package jar

import (
	"sync"
	"time"

	"github.com/warpdl/warpjar/pkg/logger"
)

// ChangeKind describes what happened to a record.
type ChangeKind string

const (
	ChangeStored  ChangeKind = "stored"
	ChangeEvicted ChangeKind = "evicted"
	ChangeCleared ChangeKind = "cleared"
)

// Change is reported to Options.OnChange. It never carries a cookie value.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Name   string     `json:"name"`
	Domain string     `json:"domain"`
	Path   string     `json:"path"`
}

// Options configures a Store. The zero value is usable.
type Options struct {
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// Logger receives discard reasons. Defaults to a NopLogger.
	Logger logger.Logger
	// PublicSuffixList, when set, rejects Domain attributes naming a public suffix.
	PublicSuffixList PublicSuffixList
	// OnChange is called after records are stored, evicted or cleared,
	// outside the store's lock.
	OnChange func(Change)
}

// Store owns every cookie record. Records are kept in insertion order;
// mutation always builds a new slice rather than deleting in place.
type Store struct {
	mu      sync.Mutex
	cookies []*Cookie

	clock    func() time.Time
	log      logger.Logger
	psl      PublicSuffixList
	onChange func(Change)
}

// New returns an empty Store. opts may be nil.
func New(opts *Options) *Store {
	if opts == nil {
		opts = &Options{}
	}
	s := &Store{
		clock:    opts.Clock,
		log:      logger.OrNop(opts.Logger),
		psl:      opts.PublicSuffixList,
		onChange: opts.OnChange,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Save stores records received in a response to requestURL and returns how
// many were stored. A record that is not Secure, arriving over an insecure
// exchange, is rejected when it would shadow an existing Secure cookie of the
// same name. Otherwise it replaces any record with the same identity key,
// inheriting that record's creation time.
func (s *Store) Save(requestURL string, records ...*Cookie) int {
	stored := 0
	for _, c := range records {
		if c == nil {
			continue
		}
		if err := s.save(requestURL, c); err != nil {
			s.logDiscard(c.Name, c.Domain, err)
			continue
		}
		stored++
	}
	return stored
}

func (s *Store) save(requestURL string, c *Cookie) error {
	s.mu.Lock()
	if !c.Secure && !IsSecure(requestURL) && s.shadowsSecureLocked(c) {
		s.mu.Unlock()
		return violation(ErrSecureShadowed)
	}
	s.insertLocked(c)
	s.mu.Unlock()

	s.emit(Change{Kind: ChangeStored, Name: c.Name, Domain: c.Domain, Path: c.Path})
	return nil
}

func (s *Store) shadowsSecureLocked(c *Cookie) bool {
	for _, old := range s.cookies {
		if !old.Secure || old.Name != c.Name {
			continue
		}
		if !DomainMatch(c.Domain, old.Domain) && !DomainMatch(old.Domain, c.Domain) {
			continue
		}
		if PathMatch(c.Path, old.Path) {
			return true
		}
	}
	return false
}

// insertLocked appends a copy of c, dropping any record with the same key.
func (s *Store) insertLocked(c *Cookie) {
	rec := *c
	key := rec.Key()
	next := make([]*Cookie, 0, len(s.cookies)+1)
	for _, old := range s.cookies {
		if old.Key() == key {
			rec.Creation = old.Creation
			continue
		}
		next = append(next, old)
	}
	s.cookies = append(next, &rec)
}

// Retrieve returns copies of the records matching requestURL, most recently
// inserted first, and bumps their LastAccess. Expired persistent records are
// evicted during the same pass.
func (s *Store) Retrieve(requestURL string) []Cookie {
	host := lowerHost(requestURL)
	path := requestPath(requestURL)
	secure := IsSecure(requestURL)

	s.mu.Lock()
	now := s.clock()
	kept := make([]*Cookie, 0, len(s.cookies))
	var evicted []Change
	var matched []Cookie
	for _, c := range s.cookies {
		if c.Expired(now) {
			evicted = append(evicted, Change{Kind: ChangeEvicted, Name: c.Name, Domain: c.Domain, Path: c.Path})
			continue
		}
		kept = append(kept, c)
		if !c.matches(host, path, secure) {
			continue
		}
		c.LastAccess = now
		matched = append(matched, *c)
	}
	s.cookies = kept
	s.mu.Unlock()

	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	s.emit(evicted...)
	return matched
}

// CookieHeaderFor returns the Cookie header value for a request to
// requestURL. ok is false when no cookie matches.
func (s *Store) CookieHeaderFor(requestURL string) (header string, ok bool) {
	return BuildHeader(s.Retrieve(requestURL))
}

// Cookies returns copies of every record in insertion order.
func (s *Store) Cookies() []Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Cookie, len(s.cookies))
	for i, c := range s.cookies {
		out[i] = *c
	}
	return out
}

// Len returns the number of records, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cookies)
}

// Restore inserts trusted records, e.g. loaded from the vault or imported
// from a browser, by identity key and without request-URL checks. Expired
// records are skipped. It returns the number inserted.
func (s *Store) Restore(records []Cookie) int {
	s.mu.Lock()
	now := s.clock()
	var changes []Change
	for i := range records {
		c := records[i]
		if c.Expired(now) || c.Path == "" {
			continue
		}
		if c.Creation.IsZero() {
			c.Creation = now
		}
		if c.LastAccess.IsZero() {
			c.LastAccess = c.Creation
		}
		s.insertLocked(&c)
		changes = append(changes, Change{Kind: ChangeStored, Name: c.Name, Domain: c.Domain, Path: c.Path})
	}
	s.mu.Unlock()

	s.emit(changes...)
	return len(changes)
}

// RemoveExpired evicts expired persistent records and returns how many were removed.
func (s *Store) RemoveExpired() int {
	now := s.Now()
	return s.removeWhere(ChangeEvicted, func(c *Cookie) bool { return c.Expired(now) })
}

// RemoveSession drops every non-persistent record, ending the logical session.
func (s *Store) RemoveSession() int {
	return s.removeWhere(ChangeEvicted, func(c *Cookie) bool { return !c.Persistent })
}

// Clear removes every record.
func (s *Store) Clear() int {
	return s.removeWhere(ChangeCleared, func(*Cookie) bool { return true })
}

func (s *Store) removeWhere(kind ChangeKind, drop func(*Cookie) bool) int {
	s.mu.Lock()
	kept := make([]*Cookie, 0, len(s.cookies))
	var changes []Change
	for _, c := range s.cookies {
		if drop(c) {
			changes = append(changes, Change{Kind: kind, Name: c.Name, Domain: c.Domain, Path: c.Path})
			continue
		}
		kept = append(kept, c)
	}
	s.cookies = kept
	s.mu.Unlock()

	s.emit(changes...)
	return len(changes)
}

func (s *Store) emit(changes ...Change) {
	if s.onChange == nil {
		return
	}
	for _, ch := range changes {
		s.onChange(ch)
	}
}
