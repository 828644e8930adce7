package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mithrel/quill/pkg/api"
)

type memEntry struct {
	html    string
	created time.Time
}

// memStore is a bounded map that evicts the oldest insert first.
type memStore struct {
	mu    sync.RWMutex
	max   int
	byKey map[string]memEntry
	order []string
	hits  int64
}

func newMemStore(max int) *memStore {
	if max <= 0 {
		max = 1024
	}
	return &memStore{max: max, byKey: make(map[string]memEntry)}
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byKey[key]
	if !ok {
		return "", ErrNotFound
	}
	m.hits++
	return e.html, nil
}

func (m *memStore) Put(ctx context.Context, key, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byKey[key]; ok {
		m.byKey[key] = memEntry{html: html, created: m.byKey[key].created}
		return nil
	}
	for len(m.order) >= m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.byKey, oldest)
	}
	m.byKey[key] = memEntry{html: html, created: time.Now().UTC()}
	m.order = append(m.order, key)
	return nil
}

func (m *memStore) Stats(ctx context.Context) (api.CacheStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := api.CacheStats{Entries: int64(len(m.byKey)), Hits: m.hits}
	for _, e := range m.byKey {
		st.Bytes += int64(len(e.html))
		if st.Oldest.IsZero() || e.created.Before(st.Oldest) {
			st.Oldest = e.created
		}
	}
	return st, nil
}

func (m *memStore) Purge(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.byKey))
	m.byKey = make(map[string]memEntry)
	m.order = nil
	m.hits = 0
	return n, nil
}
