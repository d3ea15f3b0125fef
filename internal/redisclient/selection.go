package redisclient

import (
	"context"
	"sync"
	"time"

	"influencer-dashboard/internal/models"
)

// SelectionStore keeps the filter selection of each session
type SelectionStore interface {
	SaveSelection(ctx context.Context, sessionID string, sel models.Selection) error
	GetSelection(ctx context.Context, sessionID string) (models.Selection, bool, error)
	DeleteSelection(ctx context.Context, sessionID string) error
}

var (
	_ SelectionStore = (*Client)(nil)
	_ SelectionStore = (*MemoryStore)(nil)
)

type memoryEntry struct {
	sel     models.Selection
	expires time.Time
}

// MemoryStore is the in-process SelectionStore used when Redis is not configured
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-process selection store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) SaveSelection(_ context.Context, sessionID string, sel models.Selection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{sel: copySelection(sel)}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.entries[sessionID] = entry
	return nil
}

func (m *MemoryStore) GetSelection(_ context.Context, sessionID string) (models.Selection, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return models.Selection{}, false, nil
	}
	if !entry.expires.IsZero() && m.now().After(entry.expires) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return models.Selection{}, false, nil
	}
	return copySelection(entry.sel), true, nil
}

func (m *MemoryStore) DeleteSelection(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}

func copySelection(sel models.Selection) models.Selection {
	return models.Selection{
		Platforms: copyValues(sel.Platforms),
		Campaigns: copyValues(sel.Campaigns),
		Brands:    copyValues(sel.Brands),
	}
}

// copyValues keeps the nil/empty distinction
func copyValues(v []string) []string {
	if v == nil {
		return nil
	}
	return append([]string{}, v...)
}
