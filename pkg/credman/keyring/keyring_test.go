package keyring

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/zalando/go-keyring"
)

func TestKeyringSetGetDelete(t *testing.T) {
	keyring.MockInit()

	kr := NewKeyring()
	key, err := kr.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}
	got, err := kr.GetKey()
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Fatalf("roundtrip failed: set %x, got %x", key, got)
	}
	if err := kr.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := kr.GetKey(); !errors.Is(err, keyring.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKeyringSetKey_Errors(t *testing.T) {
	origSet, origRand := keyringSet, randRead
	defer func() { keyringSet, randRead = origSet, origRand }()

	randRead = func([]byte) (int, error) { return 0, errors.New("no entropy") }
	if _, err := NewKeyring().SetKey(); err == nil {
		t.Fatal("expected rand error")
	}

	randRead = origRand
	keyringSet = func(string, string, string) error { return errors.New("no keyring") }
	if _, err := NewKeyring().SetKey(); err == nil {
		t.Fatal("expected keyring error")
	}
}

func TestKeyringGetKey_Invalid(t *testing.T) {
	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(string, string) (string, error) { return "zz", nil }
	if _, err := NewKeyring().GetKey(); err == nil {
		t.Fatal("expected invalid hex error")
	}
	keyringGet = func(string, string) (string, error) { return hex.EncodeToString([]byte{1, 2}), nil }
	if _, err := NewKeyring().GetKey(); err == nil || !strings.Contains(err.Error(), "length") {
		t.Fatalf("expected length error, got %v", err)
	}
}

type stubSource struct {
	key        []byte
	getErr     error
	setErr     error
	gets, sets int
}

func (s *stubSource) GetKey() ([]byte, error) {
	s.gets++
	return s.key, s.getErr
}

func (s *stubSource) SetKey() ([]byte, error) {
	s.sets++
	if s.setErr != nil {
		return nil, s.setErr
	}
	s.key = bytes.Repeat([]byte{0x42}, 32)
	return s.key, nil
}

func TestResolve(t *testing.T) {
	envKey := bytes.Repeat([]byte{0x07}, 32)
	got, err := Resolve(hex.EncodeToString(envKey), &stubSource{getErr: errors.New("unused")})
	if err != nil || !bytes.Equal(got, envKey) {
		t.Fatalf("env key: %x, %v", got, err)
	}
	if _, err := Resolve("not-hex"); err == nil {
		t.Fatal("expected error for malformed env key")
	}

	missing := errors.New("missing")
	osSrc := &stubSource{getErr: missing, setErr: errors.New("headless")}
	file := &stubSource{key: bytes.Repeat([]byte{0x09}, 32)}
	got, err = Resolve("", osSrc, file)
	if err != nil || got[0] != 0x09 {
		t.Fatalf("expected existing file key, got %x, %v", got, err)
	}
	if osSrc.sets != 0 {
		t.Error("must not create a key while another source has one")
	}

	osSrc = &stubSource{getErr: missing, setErr: errors.New("headless")}
	file = &stubSource{getErr: missing}
	got, err = Resolve("", osSrc, file)
	if err != nil || got[0] != 0x42 || file.sets != 1 {
		t.Fatalf("expected fallback to create a key, got %x, %v", got, err)
	}

	if _, err := Resolve(""); err == nil {
		t.Fatal("expected error without sources")
	}
}

func TestResolve_WithFileStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileKeyStore(fs, "/cfg")
	first, err := Resolve("", store)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := Resolve("", store)
	if err != nil || !bytes.Equal(first, second) {
		t.Fatalf("key must be stable across resolves: %x vs %x (%v)", first, second, err)
	}
}
