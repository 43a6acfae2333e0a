package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Local implements Storage on a directory of the local file system.
type Local struct {
	root string // absolute path
}

// NewLocal creates a Local provider rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Local{root: abs}, nil
}

var _ Storage = (*Local)(nil)

// safePath resolves a key against the root and rejects any result that
// escapes it (directory traversal).
func (l *Local) safePath(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage: empty key")
	}
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", key)
	}
	abs := filepath.Join(l.root, cleaned)
	if !strings.HasPrefix(abs, l.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", key)
	}
	return abs, nil
}

// Put writes the object atomically: tmp file, fsync, rename.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	abs, err := l.safePath(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return ObjectInfo{}, fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return ObjectInfo{}, fmt.Errorf("storage: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ObjectInfo{}, fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return ObjectInfo{}, fmt.Errorf("storage: rename: %w", err)
	}

	st, err := os.Stat(abs)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: stat: %w", err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the stored file.
func (l *Local) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	abs, err := l.safePath(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("storage: open %s: %w", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return f, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(abs)),
		LastModified: st.ModTime(),
	}, nil
}

// Delete removes the file; a missing file is not an error.
func (l *Local) Delete(ctx context.Context, key string) error {
	abs, err := l.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the file is present.
func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	abs, err := l.safePath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(abs)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("storage: stat %s: %w", key, err)
}
