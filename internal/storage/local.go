package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes blobs below a directory and serves them from baseURL.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Path maps key to a file below the root.
func (s *LocalStore) Path(key string) (string, bool) {
	clean, ok := CleanKey(key)
	if !ok {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), true
}

func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	p, ok := s.Path(key)
	if !ok {
		return fmt.Errorf("invalid key %q", key)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, io.LimitReader(body, size)); err != nil {
		f.Close()
		os.Remove(p)
		return err
	}
	return f.Close()
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, ok := s.Path(key)
	if !ok {
		return fmt.Errorf("invalid key %q", key)
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(ctx context.Context, key string) (string, error) {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/"), nil
}
