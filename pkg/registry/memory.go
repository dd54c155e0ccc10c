package registry

import (
	"context"
	"sync"
)

// Memory is a volatile Store. Everything is lost when the process exits.
type Memory[V any] struct {
	mu sync.RWMutex
	m  map[string]V
}

// NewMemory creates an empty in-memory store.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{
		m: make(map[string]V),
	}
}

// clone copies values implementing Cloner. Anything else is returned as is.
func clone[V any](v V) V {
	if c, ok := any(v).(Cloner[V]); ok {
		return c.Clone()
	}
	return v
}

func (s *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return v, false, nil
	}
	return clone(v), true, nil
}

func (s *Memory[V]) Set(_ context.Context, key string, v V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = clone(v)
	return nil
}

func (s *Memory[V]) Add(_ context.Context, key string, v V) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; ok {
		return false, nil
	}
	s.m[key] = clone(v)
	return true, nil
}

func (s *Memory[V]) Update(_ context.Context, key string, fn func(V) V) (V, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return v, false, nil
	}
	v = fn(clone(v))
	s.m[key] = clone(v)
	return v, true, nil
}

func (s *Memory[V]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[key]
	return ok, nil
}

// Len returns the number of entries held.
func (s *Memory[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
