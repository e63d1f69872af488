package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps encoded collections in process memory. Data is lost on
// restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, collection string, dst any) error {
	s.mu.RLock()
	data, ok := s.data[collection]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return decode(collection, data, dst)
}

func (s *MemoryStore) Save(_ context.Context, collection string, src any) error {
	data, err := encode(collection, src)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[collection] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
