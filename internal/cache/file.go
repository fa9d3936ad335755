package cache

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
)

// fileCache keeps one file per key under dir, the on-disk counterpart of
// browser localStorage.
type fileCache struct {
	dir string
	mu  sync.Mutex
}

func NewFileCache(dir string) (*fileCache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errs.NewCacheError(dir, "failed to create cache dir", err)
	}
	return &fileCache{dir: dir}, nil
}

func (c *fileCache) path(key string) string {
	return filepath.Join(c.dir, url.PathEscape(key)+".json")
}

func (c *fileCache) GetString(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.NewCacheError(key, "failed to read", err)
	}
	return string(b), true, nil
}

func (c *fileCache) SetString(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeFile(c.path(key), []byte(value), 0o600); err != nil {
		return errs.NewCacheError(key, "failed to write", err)
	}
	return nil
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
