package persistence

import (
	"context"
	"fmt"
	"sync"
)

var (
	_ Persistence = (*Memory)(nil)
	_ Deleter     = (*Memory)(nil)
)

// Memory keeps values in process memory. It mirrors the browser storage the
// console used originally, including a byte quota shared by all keys.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
	quota  int // 0 = unlimited
}

// NewMemory creates an empty in-memory medium. quota is the maximum number of
// bytes held across all keys; zero disables the limit.
func NewMemory(quota int) *Memory {
	return &Memory{values: make(map[string][]byte), quota: quota}
}

// Read returns a copy of the value stored under key.
func (m *Memory) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Write stores a copy of data under key, enforcing the quota.
func (m *Memory) Write(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used := 0
		for k, v := range m.values {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used+len(key)+len(data) > m.quota {
			return fmt.Errorf("failed to write %q (%d bytes, quota %d): %w", key, len(data), m.quota, ErrCapacityExceeded)
		}
	}
	m.values[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
