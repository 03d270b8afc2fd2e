package jobstatus

import "sync"

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu   sync.Mutex
	recs map[int64]Record
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{recs: make(map[int64]Record)}
}

func (m *MemStore) Get(storyID int64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[storyID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemStore) Put(storyID int64, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[storyID] = rec
	return nil
}

func (m *MemStore) Delete(storyID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, storyID)
	return nil
}
