package store

import (
	"context"
	"strings"
	"sync"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// MemoryStore keeps tenant configs in memory for tests and examples.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]tenant.Config
	order   []string
}

// NewMemoryStore constructs an in-memory tenant store seeded with configs.
func NewMemoryStore(seed ...tenant.Config) *MemoryStore {
	m := &MemoryStore{entries: map[string]tenant.Config{}}
	for _, cfg := range seed {
		_ = m.Save(context.Background(), cfg)
	}
	return m
}

// List implements Reader. Configs come back in first-save order.
func (m *MemoryStore) List(context.Context) ([]tenant.Config, error) {
	if m == nil {
		return nil, ferrors.ErrStoreRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]tenant.Config, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id].Clone())
	}
	return out, nil
}

// Save implements Writer.
func (m *MemoryStore) Save(_ context.Context, cfg tenant.Config) error {
	if m == nil {
		return ferrors.ErrStoreRequired
	}
	id := strings.TrimSpace(cfg.ID)
	if id == "" {
		return ferrors.WrapSentinel(ferrors.ErrTenantIDRequired, "", map[string]any{
			ferrors.MetaStore:     "memory",
			ferrors.MetaOperation: "save",
		})
	}
	cfg.ID = id
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string]tenant.Config{}
	}
	if _, ok := m.entries[id]; !ok {
		m.order = append(m.order, id)
	}
	m.entries[id] = cfg.Clone()
	return nil
}

// Delete implements Writer. Deleting an unknown id is not an error.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	if m == nil {
		return ferrors.ErrStoreRequired
	}
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return nil
	}
	delete(m.entries, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Features implements FeatureReader.
func (m *MemoryStore) Features(_ context.Context, id string) (tenant.Features, bool, error) {
	if m == nil {
		return tenant.Features{}, false, ferrors.ErrStoreRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.entries[strings.TrimSpace(id)]
	if !ok {
		return tenant.Features{}, false, nil
	}
	return cfg.Features.Clone(), true, nil
}

// SaveFeatures implements FeatureWriter. Only existing entries are updated.
func (m *MemoryStore) SaveFeatures(_ context.Context, id string, features tenant.Features) error {
	if m == nil {
		return ferrors.ErrStoreRequired
	}
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.entries[id]
	if !ok {
		return nil
	}
	cfg.Features = features.Clone()
	m.entries[id] = cfg
	return nil
}

var (
	_ ReadWriter    = (*MemoryStore)(nil)
	_ FeatureReader = (*MemoryStore)(nil)
	_ FeatureWriter = (*MemoryStore)(nil)
)
