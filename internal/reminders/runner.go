package reminders

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
	"github.com/tomasvera/debtwise/internal/store"
)

// Runner recomputes the reminder set on a fixed one-minute cadence (to
// catch date rollover with no data change) and whenever the snapshot
// changes. Both triggers call the same pure Evaluate, so invocation
// cadence never affects the result.
type Runner struct {
	store *store.Store
	log   *logrus.Logger
	sink  func([]models.ReminderItem)
	now   func() time.Time

	cron   *cron.Cron
	cancel func()
	done   chan struct{}

	mu     sync.RWMutex
	latest []models.ReminderItem
}

// NewRunner returns a runner over the given store. sink, if non-nil, is
// invoked with every freshly computed reminder set.
func NewRunner(st *store.Store, log *logrus.Logger, sink func([]models.ReminderItem)) *Runner {
	return &Runner{
		store: st,
		log:   log,
		sink:  sink,
		now:   time.Now,
	}
}

// Start computes an initial set and begins recomputation. Call Stop to
// release the timer and the snapshot subscription.
func (r *Runner) Start() error {
	changes, cancel := r.store.Subscribe()
	r.cancel = cancel
	r.done = make(chan struct{})

	r.cron = cron.New()
	if _, err := r.cron.AddFunc("@every 1m", r.recompute); err != nil {
		cancel()
		close(r.done)
		return fmt.Errorf("failed to schedule reminder recomputation: %w", err)
	}

	go func() {
		defer close(r.done)
		for range changes {
			r.recompute()
		}
	}()

	r.recompute()
	r.cron.Start()
	r.log.Info("Reminder runner started")
	return nil
}

// Stop cancels the periodic timer and the snapshot subscription,
// waiting for any in-flight recomputation to finish.
func (r *Runner) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
	r.log.Info("Reminder runner stopped")
}

// Latest returns the most recently computed reminder set
func (r *Runner) Latest() []models.ReminderItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ReminderItem, len(r.latest))
	copy(out, r.latest)
	return out
}

func (r *Runner) recompute() {
	items := Evaluate(r.store.View(), r.now())

	r.mu.Lock()
	r.latest = items
	r.mu.Unlock()

	r.log.Debugf("Recomputed reminders: %d active", len(items))
	if r.sink != nil {
		r.sink(items)
	}
}
