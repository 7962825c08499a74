package kvbackend

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/storage"
)

// Memory holds key-value pairs in process memory, bucketed the same way the
// persistent backends bucket them. Data does not survive the process; the
// backend exists for tests.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// Put creates or updates a value.
func (m *Memory) Put(ctx context.Context, key string, value []byte) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets == nil {
		m.buckets = make(map[string]map[string][]byte)
	}
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string][]byte)
	}
	m.buckets[bucket][k] = value
	return nil
}

// Get returns a single value. Returns storage.ErrNotFound if the key does
// not exist.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	bucket, k, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.buckets[bucket][k]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

// Delete deletes a key. Returns storage.ErrNotFound if the key does not
// exist.
func (m *Memory) Delete(ctx context.Context, key string) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket][k]; !ok {
		return storage.ErrNotFound
	}
	delete(m.buckets[bucket], k)
	return nil
}

// Scan returns all values in the bucket named by prefix.
func (m *Memory) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	if strings.HasSuffix(prefix, "/") {
		return nil, errors.New("prefix should not contain trailing /")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.buckets[prefix]))
	for k, v := range m.buckets[prefix] {
		out[prefix+"/"+k] = v
	}
	return out, nil
}
