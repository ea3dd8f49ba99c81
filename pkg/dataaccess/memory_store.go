package dataaccess

import (
	"context"
	"sort"
	"sync"

	"github.com/Jacobbrewer1/ticketwolf/pkg/entities"
)

// MemoryStore is a process-local Store. It is used in tests and for running without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*entities.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*entities.Record),
	}
}

func (m *MemoryStore) Put(_ context.Context, rec *entities.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*entities.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) Scan(ctx context.Context, typ entities.RecordType) ([]*entities.Record, error) {
	return m.Find(ctx, typ, nil)
}

func (m *MemoryStore) Find(_ context.Context, typ entities.RecordType, match map[string]string) ([]*entities.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*entities.Record, 0)
	for _, rec := range m.records {
		if matches(rec, typ, match) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Backend() string { return "memory" }

func (m *MemoryStore) Close(context.Context) error { return nil }
