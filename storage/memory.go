package storage

import (
	"context"
	"fmt"
	"sync"

	"colorstory/apperr"
)

type object struct {
	data        []byte
	contentType string
}

// Memory is an in-process object store for development and tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string]object
	baseURL string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{objects: make(map[string]object), baseURL: baseURL}
}

func (m *Memory) Store(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = object{data: append([]byte(nil), data...), contentType: contentType}
	return PublicURL(m.baseURL, path), nil
}

func (m *Memory) Open(ctx context.Context, path string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[path]
	if !ok {
		return nil, "", fmt.Errorf("asset %s: %w", path, apperr.ErrNotFound)
	}
	return append([]byte(nil), obj.data...), obj.contentType, nil
}

// Paths lists stored object paths.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.objects))
	for p := range m.objects {
		paths = append(paths, p)
	}
	return paths
}
