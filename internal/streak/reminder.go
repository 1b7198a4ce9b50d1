package streak

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-co-op/gocron"
)

// ReminderConfig bounds when reminders may fire (UTC hours).
type ReminderConfig struct {
	StartHour int
	EndHour   int
}

// DefaultReminderConfig returns the reference notification window.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{StartHour: 8, EndHour: 22}
}

// Reminder periodically evaluates streak risk and hands at-risk states to
// a notify callback. Outside the notification window it stays quiet.
type Reminder struct {
	sched  *gocron.Scheduler
	svc    *Service
	cfg    ReminderConfig
	notify func(Risk)
}

// NewReminder creates a Reminder over the streak service.
func NewReminder(svc *Service, cfg ReminderConfig, notify func(Risk)) *Reminder {
	return &Reminder{
		sched:  gocron.NewScheduler(time.UTC),
		svc:    svc,
		cfg:    cfg,
		notify: notify,
	}
}

// Start arms the hourly risk check without blocking.
func (r *Reminder) Start() error {
	if _, err := r.sched.Every(1).Hour().Do(r.check); err != nil {
		return fmt.Errorf("schedule streak reminder: %w", err)
	}
	r.sched.StartAsync()
	return nil
}

// Stop cancels all scheduled checks.
func (r *Reminder) Stop() {
	r.sched.Stop()
}

func (r *Reminder) check() {
	hour := r.svc.clock.Now().UTC().Hour()
	if hour < r.cfg.StartHour || hour > r.cfg.EndHour {
		return
	}

	risk, err := r.svc.Risk(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: streak risk check failed: %v\n", err)
		return
	}
	if risk.AtRisk && r.notify != nil {
		r.notify(risk)
	}
}
