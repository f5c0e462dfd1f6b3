// Package store holds the in-memory financial snapshot and coordinates
// persistence and change notification. Updates follow a copy-and-replace
// discipline: every mutation produces a wholly new snapshot, so readers
// never observe a partially-updated state.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
)

// Backend persists snapshots. A backend must fail closed on malformed
// persisted data: return the default empty snapshot and surface a
// diagnostic through its logger rather than an error.
type Backend interface {
	Load(ctx context.Context) (models.FinancialState, error)
	Save(ctx context.Context, state models.FinancialState) error
}

// Watcher is implemented by backends that observe snapshot replacements
// made by other sessions.
type Watcher interface {
	Watch(ctx context.Context) (<-chan models.FinancialState, error)
}

// EmptyState returns the default snapshot a backend falls back to when
// nothing has been persisted yet or the persisted payload is unusable.
func EmptyState() models.FinancialState {
	return models.FinancialState{
		Debts:    []models.Debt{},
		Expenses: []models.Expense{},
		Incomes:  []models.Income{},
		Payments: []models.Payment{},
		History:  []models.HistoryPoint{},
	}
}

// Store is the snapshot coordinator shared by readers and mutators
type Store struct {
	backend Backend
	log     *logrus.Logger

	mu      sync.RWMutex
	state   models.FinancialState
	nextSub int
	subs    map[int]chan models.FinancialState
}

// New loads the persisted snapshot and returns a store around it
func New(ctx context.Context, backend Backend, log *logrus.Logger) (*Store, error) {
	state, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return &Store{
		backend: backend,
		log:     log,
		state:   state,
		subs:    make(map[int]chan models.FinancialState),
	}, nil
}

// View returns a copy of the current snapshot. Callers may freely keep
// or modify the copy without affecting the store.
func (s *Store) View() models.FinancialState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies mutate to a copy of the current snapshot, persists the
// result, installs it as the new snapshot, and notifies subscribers.
// The previous snapshot is kept if persistence fails.
func (s *Store) Update(ctx context.Context, mutate func(models.FinancialState) models.FinancialState) (models.FinancialState, error) {
	s.mu.Lock()
	next := mutate(s.state.Clone())
	if err := s.backend.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return models.FinancialState{}, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	s.state = next
	result := next.Clone()
	s.mu.Unlock()

	s.notify(result)
	return result, nil
}

// Replace installs a snapshot that originated in another session.
// Last-writer-wins: the incoming snapshot fully replaces the local one
// with no merge of concurrent edits.
func (s *Store) Replace(state models.FinancialState) {
	s.mu.Lock()
	s.state = state.Clone()
	result := s.state.Clone()
	s.mu.Unlock()

	s.log.Debug("Snapshot replaced by external change")
	s.notify(result)
}

// Subscribe registers a change listener. The returned channel carries a
// snapshot copy after every update or replacement; if the subscriber is
// slow, intermediate snapshots are dropped in favor of the newest. The
// cancel function releases the subscription.
func (s *Store) Subscribe() (<-chan models.FinancialState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan models.FinancialState, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Store) notify(state models.FinancialState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		// Drain a stale pending snapshot so the newest one always lands.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
