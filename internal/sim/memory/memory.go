// Package memory is the process-wide keyed state that survives across
// ticks: marks, last-energized bookkeeping, strategic flags. It lives for
// the bot process's run and is never written to disk; a restart starts
// empty. Ticks are evaluated single-threaded, but the store is serialized
// anyway so a parallel evaluator cannot corrupt it.
package memory

import (
	"sort"
	"sync"
)

type Store struct {
	mu sync.RWMutex
	kv map[string]any
}

func NewStore() *Store {
	return &Store{kv: make(map[string]any)}
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.kv[key]
	return v, ok
}

func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
}

// Keys returns all keys with the given prefix, sorted. An empty prefix
// returns every key.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.kv))
	for k := range s.kv {
		if prefix == "" || (len(k) >= len(prefix) && k[:len(prefix)] == prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kv)
}

// GetInt is a convenience for counters and tick bookkeeping; returns 0
// for absent keys or non-int values.
func (s *Store) GetInt(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}
