// Package testutil provides an in-memory storage.Storage for tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/scribe/storage"
)

// Memory is a storage.Storage backed by a map.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	mods  map[string]time.Time
}

var _ storage.Storage = (*Memory)(nil)

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte), mods: make(map[string]time.Time)}
}

// Put stores data under key.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = append([]byte(nil), data...)
	m.mods[key] = time.Now()
}

// Upload implements storage.Storage.
func (m *Memory) Upload(_ context.Context, key string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.Put(key, data)
	return nil
}

// Download implements storage.Storage.
func (m *Memory) Download(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete implements storage.Storage.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	delete(m.mods, key)
	return nil
}

// Exists implements storage.Storage.
func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[key]
	return ok, nil
}

// List implements storage.Storage.
func (m *Memory) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	files := []storage.FileInfo{}
	for key, data := range m.files {
		if strings.HasPrefix(key, prefix) {
			files = append(files, storage.FileInfo{Path: key, Size: int64(len(data)), LastModified: m.mods[key]})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
