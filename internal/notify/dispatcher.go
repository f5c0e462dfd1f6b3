// Package notify delivers best-effort external alerts for discrete user
// actions. Dispatch is fire-and-forget: a suppressed or failed alert
// never blocks the state mutation that triggered it.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
)

// How long after a presence heartbeat the user counts as foreground.
const presenceTTL = 90 * time.Second

// Notifier delivers a single alert to an external channel
type Notifier interface {
	Send(title, body string) error
}

// NopNotifier discards alerts, used when no channel is configured
type NopNotifier struct{}

// Send discards the alert
func (NopNotifier) Send(title, body string) error { return nil }

// Dispatcher emits at most one alert per triggering user action. Alerts
// are suppressed when permission was not granted or the user has an
// active foreground session; suppression is a silent no-op, not an
// error.
type Dispatcher struct {
	notifier Notifier
	log      *logrus.Logger
	granted  bool
	now      func() time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// NewDispatcher returns a dispatcher over the given alert channel.
// granted reflects whether the user permitted external alerts.
func NewDispatcher(notifier Notifier, granted bool, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		log:      log,
		granted:  granted,
		now:      time.Now,
	}
}

// MarkPresent records a foreground heartbeat. While the heartbeat is
// fresh the user is assumed to be watching the app, so external alerts
// are suppressed.
func (d *Dispatcher) MarkPresent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastSeen = d.now()
}

func (d *Dispatcher) foreground() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.lastSeen.IsZero() && d.now().Sub(d.lastSeen) < presenceTTL
}

// DebtAdded announces a newly tracked debt
func (d *Dispatcher) DebtAdded(debt models.Debt) {
	d.dispatch(
		"New debt tracked",
		fmt.Sprintf("%s added with a balance of $%.2f.", debt.Name, debt.CurrentAmount),
	)
}

// PaymentRecorded announces a recorded payment against a debt
func (d *Dispatcher) PaymentRecorded(payment models.Payment, debt models.Debt) {
	d.dispatch(
		"Payment recorded",
		fmt.Sprintf("$%.2f paid toward %s. Remaining balance: $%.2f.", payment.Amount, debt.Name, debt.CurrentAmount),
	)
}

func (d *Dispatcher) dispatch(title, body string) {
	if !d.granted {
		d.log.Debugf("Alert suppressed (permission not granted): %s", title)
		return
	}
	if d.foreground() {
		d.log.Debugf("Alert suppressed (foreground session active): %s", title)
		return
	}
	if err := d.notifier.Send(title, body); err != nil {
		d.log.Errorf("Failed to send alert %q: %v", title, err)
		return
	}
	d.log.Infof("Alert sent: %s", title)
}
