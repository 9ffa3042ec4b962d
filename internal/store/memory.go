package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/scim-go/scimcore/internal/resource"
)

// Memory is an in-process Store backed by a map, guarded by a mutex the
// way the rest of the core protects shared mutable state. Suitable for
// tests and single-node deployments; state does not survive a restart.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]*Record // "resourceType/id" -> record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]*Record)}
}

func memKey(resourceType, id string) string {
	return resourceType + "/" + id
}

func (m *Memory) Get(_ context.Context, resourceType, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recs[memKey(resourceType, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// Put inserts or updates a record. If rec.ID is empty, a new UUID is
// minted and written back into rec before it's stored.
func (m *Memory) Put(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	m.recs[memKey(rec.ResourceType, rec.ID)] = cloneRecord(rec)
	return nil
}

func (m *Memory) Delete(_ context.Context, resourceType, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memKey(resourceType, id)
	if _, ok := m.recs[key]; !ok {
		return ErrNotFound
	}
	delete(m.recs, key)
	return nil
}

func (m *Memory) List(_ context.Context, resourceType string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Record
	for _, rec := range m.recs {
		if rec.ResourceType == resourceType {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func cloneRecord(rec *Record) *Record {
	clone := *rec
	if rec.Document != nil {
		clone.Document = resource.Clone(rec.Document)
	}
	return &clone
}
