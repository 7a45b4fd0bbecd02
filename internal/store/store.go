// Package store reads and writes whole documents by path.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound indicates that no document exists at the path.
var ErrNotFound = errors.New("document not found")

// Store is the host document store. Both operations are whole-document.
type Store interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, text string) error
}

// FileStore keeps documents as files under Root.
type FileStore struct {
	Root string
}

func (s FileStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if strings.TrimPrefix(clean, "/") == "" {
		return "", fmt.Errorf("empty document path")
	}
	return filepath.Join(s.Root, clean), nil
}

func (s FileStore) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

// Write replaces the file through a temporary sibling and a rename. An
// existing file keeps its permissions.
func (s FileStore) Write(ctx context.Context, path, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(full); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MemoryStore is an in-process store, used for tests and scratch documents.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]string)}
}

func (s *MemoryStore) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[path]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return text, nil
}

func (s *MemoryStore) Write(ctx context.Context, path, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[path] = text
	return nil
}
