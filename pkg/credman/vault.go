// Package credman persists the cookie jar between runs in an encrypted vault.
package credman

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/warpdl/warpjar/pkg/credman/encryption"
	"github.com/warpdl/warpjar/pkg/jar"
)

// VaultFileName is the vault's file name inside the config directory.
const VaultFileName = "cookies.warpjar"

const vaultVersion = 1

var (
	ErrCorruptVault       = errors.New("corrupt cookie vault")
	ErrUnsupportedVersion = errors.New("unsupported vault version")
)

type vaultFile struct {
	Version int
	Cookies []jar.Cookie
}

// Vault stores persistent cookies, gob-encoded and sealed with AES-256-GCM.
// Session cookies are never written.
//
// Writes are serialised: SaveFrom holds the vault's lock from the snapshot
// to the rename, so the file always ends up holding the latest snapshot even
// when the RPC handlers and the maintenance job save at the same time.
type Vault struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	key  []byte
}

// NewVault returns a vault for dir on fs. key must be 32 bytes.
func NewVault(fs afero.Fs, dir string, key []byte) (*Vault, error) {
	if len(key) != encryption.KeySize {
		return nil, encryption.ErrInvalidKey
	}
	return &Vault{
		fs:   fs,
		path: filepath.Join(dir, VaultFileName),
		key:  key,
	}, nil
}

// Path returns the vault file path.
func (v *Vault) Path() string {
	return v.path
}

// Load reads the vault. A missing file is an empty vault.
func (v *Vault) Load() ([]jar.Cookie, error) {
	sealed, err := afero.ReadFile(v.fs, v.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := encryption.Open(sealed, v.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptVault, err)
	}
	var vf vaultFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&vf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptVault, err)
	}
	if vf.Version != vaultVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, vf.Version)
	}
	return vf.Cookies, nil
}

// Save replaces the vault with the persistent records among cookies.
func (v *Vault) Save(cookies []jar.Cookie) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.save(cookies)
}

func (v *Vault) save(cookies []jar.Cookie) error {
	vf := vaultFile{Version: vaultVersion}
	for _, c := range cookies {
		if c.Persistent {
			vf.Cookies = append(vf.Cookies, c)
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(vf); err != nil {
		return err
	}
	sealed, err := encryption.Seal(buf.Bytes(), v.key)
	if err != nil {
		return err
	}
	return v.writeAtomic(sealed)
}

func (v *Vault) writeAtomic(data []byte) error {
	dir := filepath.Dir(v.path)
	if err := v.fs.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}
	tmp, err := afero.TempFile(v.fs, dir, "."+VaultFileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		v.fs.Remove(tmpPath)
		return fmt.Errorf("write vault: %w", err)
	}
	if err := tmp.Close(); err != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := v.fs.Chmod(tmpPath, 0600); err != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := v.fs.Rename(tmpPath, v.path); err != nil {
		v.fs.Remove(tmpPath)
		return fmt.Errorf("rename vault: %w", err)
	}
	return nil
}

// LoadInto restores the vault's records into s and returns how many were
// inserted. Records that expired while stored are skipped.
func (v *Vault) LoadInto(s *jar.Store) (int, error) {
	cookies, err := v.Load()
	if err != nil {
		return 0, err
	}
	return s.Restore(cookies), nil
}

// SaveFrom writes the persistent, unexpired records of s. Concurrent calls
// are applied in the order their snapshots were taken.
func (v *Vault) SaveFrom(s *jar.Store) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	s.RemoveExpired()
	return v.save(s.Cookies())
}
