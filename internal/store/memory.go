package store

import (
	"errors"
	"sync"

	"github.com/amishk599/jobdesk/internal/model"
)

// Ensure MemoryStore implements model.KeyValueStore.
var _ model.KeyValueStore = (*MemoryStore)(nil)

// ErrWriteRejected is returned by a MemoryStore with FailWrites set.
var ErrWriteRejected = errors.New("write rejected")

// MemoryStore is an in-process store used for ephemeral sessions. Nothing
// survives the process.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailWrites makes every Put fail, simulating a full or read-only disk.
	FailWrites bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value under key, replacing any previous value.
func (s *MemoryStore) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteRejected
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}
