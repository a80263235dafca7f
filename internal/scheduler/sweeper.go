package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/metrics"
	"github.com/SkillNet-official/telegram-reminder-bot/internal/shared/logger"
)

const sweepSchedule = "@every 1h"

// Sweeper periodically removes reminders whose event time has passed. The
// startup reconciliation handles restarts; the sweeper keeps the store
// consistent over long uptimes, where a reminder whose notifications have all
// fired (or were never armable) would otherwise linger until the next boot.
type Sweeper struct {
	cron   *cron.Cron
	store  ReminderSource
	engine *Engine
	log    *logger.Logger
}

// NewSweeper creates a new expiry sweeper
func NewSweeper(store ReminderSource, engine *Engine, log *logger.Logger) *Sweeper {
	return &Sweeper{
		cron:   cron.New(),
		store:  store,
		engine: engine,
		log:    log,
	}
}

// Start schedules the hourly sweep
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(sweepSchedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Expiry sweeper started", "schedule", sweepSchedule)
	return nil
}

// Stop stops the sweeper
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reminders, err := s.store.LoadAll(ctx)
	if err != nil {
		s.log.Error("Expiry sweep failed to load reminders", "error", err)
		return
	}

	now := time.Now()
	removed := 0
	for _, reminder := range reminders {
		if reminder.FireAt.After(now) {
			continue
		}

		s.engine.CancelAll(reminder.ID)
		if _, err := s.store.Remove(ctx, reminder.ID); err != nil {
			s.log.Error("Expiry sweep failed to remove reminder", "error", err, "reminder_id", reminder.ID)
			continue
		}
		metrics.RemindersExpired.Inc()
		removed++
	}

	if removed > 0 {
		s.log.Info("Expiry sweep removed past reminders", "removed", removed)
	}
}
