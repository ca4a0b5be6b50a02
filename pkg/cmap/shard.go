package cmap

import "sync"

// shard is one independently locked partition of the key space.
// Its items map is only read under mu.RLock and only mutated under mu.Lock.
type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func newShard[V any]() *shard[V] {
	return &shard[V]{
		items: make(map[string]V),
	}
}

func (s *shard[V]) get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.items[key]
	return val, ok
}

func (s *shard[V]) put(key string, value V) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.items[key]
	s.items[key] = value
	return prev, existed
}

func (s *shard[V]) delete(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.items[key]
	if existed {
		delete(s.items, key)
	}
	return prev, existed
}

func (s *shard[V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *shard[V]) clear() {
	s.mu.Lock()
	s.items = make(map[string]V)
	s.mu.Unlock()
}
