package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tms/backend/internal/application/document"
)

var _ document.ObjectStorage = (*MemoryObjectStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryObjectStorage keeps objects in process memory. It backs the
// "memory" storage driver used in development and tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

// NewMemoryObjectStorage creates an empty in-memory store. Download URLs
// are built under baseURL.
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/objects"
	}
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores a copy of body
func (m *MemoryObjectStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if key == "" {
		return errKeyRequired
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object body: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, contentType: contentType, modified: time.Now()}
	m.mu.Unlock()
	return nil
}

// DownloadURL returns a pseudo-signed URL for a stored key
func (m *MemoryObjectStorage) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	u := fmt.Sprintf("%s/%s?expires=%d", m.baseURL, url.PathEscape(key), expiresAt.Unix())
	return u, expiresAt, nil
}

// Exists reports whether key is stored
func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errKeyRequired
	}
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	return ok, nil
}

// List returns stored objects under prefix sorted by key
func (m *MemoryObjectStorage) List(_ context.Context, prefix string) ([]document.ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []document.ObjectInfo
	for k, obj := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, document.ObjectInfo{
				Key:          k,
				Size:         int64(len(obj.data)),
				ContentType:  obj.contentType,
				LastModified: obj.modified,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Delete removes key
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// Get returns a stored object's bytes
func (m *MemoryObjectStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}
