package keyring

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestFileKeyStore_SetGetDelete(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewFileKeyStore(afero.NewOsFs(), tmpDir)

	key, err := store.SetKey()
	if err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-byte key, got %d", len(key))
	}

	keyPath := filepath.Join(tmpDir, keyFileName)
	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("key file not created: %v", err)
	}
	if info.Mode().Perm() != keyFileMode {
		t.Fatalf("expected permissions %o, got %o", keyFileMode, info.Mode().Perm())
	}

	gotKey, err := store.GetKey()
	if err != nil {
		t.Fatalf("GetKey: %v", err)
	}
	if !bytes.Equal(key, gotKey) {
		t.Fatalf("roundtrip failed: set %x, got %x", key, gotKey)
	}

	if err := store.DeleteKey(); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if _, err := os.Stat(keyPath); !os.IsNotExist(err) {
		t.Fatal("key file should be deleted")
	}
}

func TestFileKeyStore_GetKey_NotFound(t *testing.T) {
	store := NewFileKeyStore(afero.NewMemMapFs(), "/cfg")
	if _, err := store.GetKey(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFileKeyStore_GetKey_Corrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/cfg/"+keyFileName, []byte("nothex"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileKeyStore(fs, "/cfg").GetKey(); err == nil {
		t.Fatal("expected invalid key format error")
	}
}

func TestFileKeyStore_SetKey_RandFailure(t *testing.T) {
	orig := fileRandRead
	defer func() { fileRandRead = orig }()
	fileRandRead = func([]byte) (int, error) { return 0, errors.New("no entropy") }

	fs := afero.NewMemMapFs()
	if _, err := NewFileKeyStore(fs, "/cfg").SetKey(); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := afero.ReadDir(fs, "/cfg")
	if len(entries) != 0 {
		t.Errorf("no files should be left behind, got %d", len(entries))
	}
}

func TestFileKeyStore_SetKey_ReadOnly(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	if _, err := NewFileKeyStore(fs, "/cfg").SetKey(); err == nil {
		t.Fatal("expected error on read-only filesystem")
	}
}
