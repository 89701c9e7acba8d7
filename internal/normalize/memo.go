package normalize

import "sync"

// Memo caches the result computed for the most recent source. It holds a
// single entry that is replaced whenever the source changes.
type Memo[T any] struct {
	mu     sync.Mutex
	valid  bool
	source string
	value  T
	build  func(string) T
}

// NewMemo returns a Memo that computes values with build.
func NewMemo[T any](build func(source string) T) *Memo[T] {
	return &Memo[T]{build: build}
}

// Get returns the value for source and whether it came from the cache.
// build runs without the lock held. When two builds for the same source
// race, the value stored first is kept.
func (m *Memo[T]) Get(source string) (T, bool) {
	m.mu.Lock()
	if m.valid && m.source == source {
		v := m.value
		m.mu.Unlock()
		return v, true
	}
	m.mu.Unlock()

	v := m.build(source)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.source == source {
		return m.value, false
	}
	m.value, m.source, m.valid = v, source, true
	return v, false
}

// Reset drops the cached entry.
func (m *Memo[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.valid, m.source, m.value = false, "", zero
}
