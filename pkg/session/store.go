package session

import (
	"context"
	"slices"
	"sync"
)

// Store is the interface for session storage backends.
type Store interface {
	// Get loads a session by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores the current state of a session, replacing any earlier
	// version.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored sessions in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// MemoryStore keeps records in a map. Stored sessions are snapshots: later
// commands on the original do not leak into the store until Set is called
// again.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return FromRecord(&rec)
}

func (m *MemoryStore) Set(ctx context.Context, s *Session) error {
	rec, err := s.Record()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
