package com

import "sync"

// Map defines a concurrent-safe map structure.
type Map[K comparable, V any] struct {
	m  map[K]V
	mu sync.Mutex
}

func NewMap[K comparable, V any]() *Map[K, V] { return &Map[K, V]{m: make(map[K]V, 10)} }

func (m *Map[_, _]) Len() int          { m.mu.Lock(); defer m.mu.Unlock(); return len(m.m) }
func (m *Map[K, V]) Put(key K, v V)    { m.mu.Lock(); m.m[key] = v; m.mu.Unlock() }
func (m *Map[K, _]) RemoveByKey(key K) { m.mu.Lock(); delete(m.m, key); m.mu.Unlock() }

// Drain removes all the elements, processing each of them with the callback.
func (m *Map[K, V]) Drain(fn func(v V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.m {
		delete(m.m, k)
		fn(v)
	}
}
