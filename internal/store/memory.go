package store

import (
	"context"
	"sync"

	"github.com/tomasvera/debtwise/internal/models"
)

// MemoryBackend keeps the snapshot in memory, for tests and standalone runs
type MemoryBackend struct {
	mu    sync.Mutex
	state models.FinancialState
	saved bool
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the last saved snapshot, or the default empty one
func (b *MemoryBackend) Load(ctx context.Context) (models.FinancialState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.saved {
		return EmptyState(), nil
	}
	return b.state.Clone(), nil
}

// Save stores a copy of the snapshot
func (b *MemoryBackend) Save(ctx context.Context, state models.FinancialState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state.Clone()
	b.saved = true
	return nil
}
