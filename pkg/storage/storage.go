// Package storage provides the synced key-value storage that backs caselens
// persisted state. Values are JSON documents addressed by a top-level key;
// every write replaces the value of a key as a whole.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrKeyNotFound is returned by Decode when the requested key is absent.
var ErrKeyNotFound = errors.New("storage key not found")

// KV is a whole-value key-value store. Get returns only the keys that exist.
type KV interface {
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	Set(ctx context.Context, items map[string]any) error
}

// Decode reads a single key from kv into out.
func Decode(ctx context.Context, kv KV, key string, out any) error {
	values, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	raw, ok := values[key]
	if !ok {
		return ErrKeyNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return nil
}

// FileKV implements KV on top of a single JSON object file. The file is
// re-read on every Get so writes from other processes become visible.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a file-backed store.
// If path is empty, defaults to ~/.caselens/storage.json
func NewFileKV(path string) (*FileKV, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".caselens", "storage.json")
	}
	return &FileKV{path: path}, nil
}

// Path returns the file path of the store.
func (s *FileKV) Path() string {
	return s.path
}

// Get returns the raw values for the requested keys. With no keys, every
// stored key is returned.
func (s *FileKV) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return all, nil
	}

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if raw, ok := all[key]; ok {
			result[key] = raw
		}
	}
	return result, nil
}

// Set overwrites the given keys. Keys not named are preserved.
func (s *FileKV) Set(ctx context.Context, items map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readLocked()
	if err != nil {
		return err
	}
	for key, value := range items {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		all[key] = raw
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	return WriteFileAtomic(s.path, data)
}

func (s *FileKV) readLocked() (map[string]json.RawMessage, error) {
	all := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return all, nil
		}
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to decode storage file: %w", err)
	}
	return all, nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// into place, creating the parent directory when needed.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
