package store

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(context.Background(), NewMemoryBackend(), testLogger())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return st
}

func TestStore_StartsEmpty(t *testing.T) {
	st := newTestStore(t)
	state := st.View()
	if len(state.Debts) != 0 || len(state.Expenses) != 0 || len(state.Payments) != 0 {
		t.Errorf("expected empty snapshot, got %+v", state)
	}
}

func TestStore_ViewIsolation(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Update(context.Background(), func(s models.FinancialState) models.FinancialState {
		s.Debts = append(s.Debts, models.Debt{ID: "d1", Name: "Card", CurrentAmount: 100})
		return s
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	view := st.View()
	view.Debts[0].Name = "tampered"
	view.Debts[0].CurrentAmount = 0

	fresh := st.View()
	if fresh.Debts[0].Name != "Card" || fresh.Debts[0].CurrentAmount != 100 {
		t.Error("mutating a viewed snapshot leaked into the store")
	}
}

func TestStore_UpdatePersists(t *testing.T) {
	backend := NewMemoryBackend()
	st, err := New(context.Background(), backend, testLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	_, err = st.Update(context.Background(), func(s models.FinancialState) models.FinancialState {
		s.Incomes = append(s.Incomes, models.Income{ID: "i1", Source: "Salary", Amount: 4000})
		return s
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// A second store over the same backend sees the persisted snapshot.
	st2, err := New(context.Background(), backend, testLogger())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	state := st2.View()
	if len(state.Incomes) != 1 || state.Incomes[0].Source != "Salary" {
		t.Errorf("persisted snapshot not reloaded: %+v", state.Incomes)
	}
}

func TestStore_SubscribeReceivesUpdates(t *testing.T) {
	st := newTestStore(t)
	ch, cancel := st.Subscribe()
	defer cancel()

	_, err := st.Update(context.Background(), func(s models.FinancialState) models.FinancialState {
		s.Debts = append(s.Debts, models.Debt{ID: "d1"})
		return s
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	select {
	case state := <-ch:
		if len(state.Debts) != 1 {
			t.Errorf("subscriber got stale snapshot: %+v", state)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified of update")
	}
}

func TestStore_ReplaceIsLastWriterWins(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Update(context.Background(), func(s models.FinancialState) models.FinancialState {
		s.Debts = append(s.Debts, models.Debt{ID: "local"})
		return s
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	ch, cancel := st.Subscribe()
	defer cancel()

	incoming := EmptyState()
	incoming.Debts = append(incoming.Debts, models.Debt{ID: "remote"})
	st.Replace(incoming)

	state := st.View()
	if len(state.Debts) != 1 || state.Debts[0].ID != "remote" {
		t.Errorf("replace did not fully overwrite local state: %+v", state.Debts)
	}

	select {
	case got := <-ch:
		if len(got.Debts) != 1 || got.Debts[0].ID != "remote" {
			t.Errorf("subscriber got wrong snapshot after replace: %+v", got.Debts)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified of replace")
	}
}

func TestStore_SlowSubscriberGetsNewest(t *testing.T) {
	st := newTestStore(t)
	ch, cancel := st.Subscribe()
	defer cancel()

	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		if _, err := st.Update(context.Background(), func(s models.FinancialState) models.FinancialState {
			s.Debts = append(s.Debts, models.Debt{ID: id})
			return s
		}); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	select {
	case state := <-ch:
		if len(state.Debts) != 3 {
			t.Errorf("expected the newest snapshot with 3 debts, got %d", len(state.Debts))
		}
	case <-time.After(time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestStore_CancelStopsNotifications(t *testing.T) {
	st := newTestStore(t)
	ch, cancel := st.Subscribe()
	cancel()

	if _, err := st.Update(context.Background(), func(s models.FinancialState) models.FinancialState {
		return s
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}
}
