package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Local writes images under Dir and serves them from PublicURL, which the
// server maps to Dir.
type Local struct {
	Dir       string
	PublicURL string
}

// NewLocal ensures dir exists.
func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(dir, KeyPrefix), 0o755); err != nil {
		return nil, fmt.Errorf("imagestore: %w", err)
	}
	return &Local{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Put writes r to Dir/key.
func (l *Local) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	dst := filepath.Join(l.Dir, filepath.FromSlash(key))
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return l.PublicURL + "/" + key, nil
}

// Remove deletes the file behind url.  Missing files are not an error.
func (l *Local) Remove(_ context.Context, url string) error {
	key, ok := keyFromURL(l.PublicURL, url)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Memory keeps images in a map.  Used by tests.
type Memory struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Types   map[string]string
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{Objects: map[string][]byte{}, Types: map[string]string{}}
}

const memoryBase = "mem://images"

// Put stores r under key.
func (m *Memory) Put(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = b
	m.Types[key] = contentType
	return memoryBase + "/" + key, nil
}

// Remove deletes the object behind url.
func (m *Memory) Remove(_ context.Context, url string) error {
	key, ok := keyFromURL(memoryBase, url)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
