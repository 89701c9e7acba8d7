package store

import (
	"context"
	"sync"
	"time"
)

type memCache struct {
	mu    sync.RWMutex
	max   int
	order []string
	byKey map[string]*Render
}

func newMemCache(max int) *memCache {
	return &memCache{max: max, byKey: make(map[string]*Render)}
}

func (m *memCache) Get(ctx context.Context, key string) (Render, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byKey[key]
	if !ok {
		return Render{}, ErrNotFound
	}
	r.Hits++
	m.touch(key)
	return *r, nil
}

// touch moves key to the most recently used end.
func (m *memCache) touch(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(append(m.order[:i:i], m.order[i+1:]...), key)
			return
		}
	}
}

func (m *memCache) Put(ctx context.Context, r Render) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if _, ok := m.byKey[r.Key]; ok {
		m.touch(r.Key)
	} else {
		m.order = append(m.order, r.Key)
	}
	m.byKey[r.Key] = &r
	for len(m.order) > m.max {
		delete(m.byKey, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

func (m *memCache) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Stats{Entries: int64(len(m.byKey))}
	for _, r := range m.byKey {
		st.Hits += r.Hits
	}
	return st, nil
}

func (m *memCache) Close() error { return nil }
