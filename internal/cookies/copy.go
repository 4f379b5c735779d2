package cookies

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	ErrNotFound          = errors.New("cookie file not found")
	ErrIsDirectory       = errors.New("expected a cookie file, got a directory")
	ErrEmptyFile         = errors.New("cookie file is empty or corrupted")
	ErrUnsupportedFormat = errors.New("unsupported cookie store format")
)

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return nil
}

// SafeCopy copies a SQLite cookie file, and its -wal and -shm companions when
// present, to a temporary directory so the browser's lock is never touched.
// The caller must call cleanup when done.
func SafeCopy(srcPath string) (tempDir string, cleanup func(), err error) {
	if err := checkFile(srcPath); err != nil {
		return "", nil, err
	}

	tempDir, err = os.MkdirTemp("", "warpjar-cookies-*")
	if err != nil {
		return "", nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(tempDir) }

	base := filepath.Base(srcPath)
	if err := copyFile(srcPath, filepath.Join(tempDir, base)); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		companion := srcPath + suffix
		if _, err := os.Stat(companion); err == nil {
			_ = copyFile(companion, filepath.Join(tempDir, base+suffix))
		}
	}
	return tempDir, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("cannot create destination file %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("cannot copy file: %w", err)
	}
	return out.Close()
}
