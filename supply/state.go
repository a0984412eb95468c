package supply

import (
	"context"
	"sync"
)

// StateStore holds everything the controller remembers between ticks: how
// many supply structures it has started, and which expansions have already
// had their behind-mineral-line placement tried.
type StateStore interface {
	Progress(ctx context.Context) (int, error)
	// Advance increments the progress counter by one and returns the new value.
	Advance(ctx context.Context) (int, error)
	Attempted(ctx context.Context, expansionID string) (bool, error)
	// MarkAttempted sets the label. Marking twice is a no-op.
	MarkAttempted(ctx context.Context, expansionID string) error
}

// MemoryStore is the default StateStore. It is lost when the process exits.
type MemoryStore struct {
	mu        sync.Mutex
	progress  int
	attempted map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempted: make(map[string]bool)}
}

func (m *MemoryStore) Progress(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress, nil
}

func (m *MemoryStore) Advance(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress++
	return m.progress, nil
}

func (m *MemoryStore) Attempted(_ context.Context, expansionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempted[expansionID], nil
}

func (m *MemoryStore) MarkAttempted(_ context.Context, expansionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempted[expansionID] = true
	return nil
}
