// Package store provides the key-value persistence used to cache the daily selection.
package store

import (
	"errors"
	"sync"
)

// Persisted keys for the daily selection.
const (
	KeyWords = "dailyWords"
	KeyDate  = "dailyWordsDate"
)

// ErrClosed is returned when operations are attempted on a closed store.
var ErrClosed = errors.New("store is closed")

// KV is a synchronous string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Clear removes all stored values.
	Clear() error

	// Close releases resources.
	Close() error
}

// BatchSetter is implemented by stores that can write several keys at once.
type BatchSetter interface {
	SetMany(entries map[string]string) error
}

// SetAll writes entries using SetMany when the store supports it.
func SetAll(kv KV, entries map[string]string) error {
	if bs, ok := kv.(BatchSetter); ok {
		return bs.SetMany(entries)
	}
	for k, v := range entries {
		if err := kv.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// MemoryKV is an in-memory KV, used in tests and when no state file is wanted.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string]string
	writes int
	closed bool
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// Get returns the value for key.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Clear removes all values.
func (m *MemoryKV) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.data = make(map[string]string)
	m.writes++
	return nil
}

// Close marks the store closed.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Writes returns the number of mutating calls made so far.
func (m *MemoryKV) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
