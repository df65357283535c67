// Package reminder runs the daily assignment-reminder job.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/email"
	"github.com/classdesk/classdesk-be/internal/models"
	"github.com/classdesk/classdesk-be/internal/services"
)

// Scheduler fires once per day at the configured wall-clock time in an
// explicit timezone and emails every enrolled student whose assignments are
// due the next day.
type Scheduler struct {
	courseSvc   services.CourseServiceProvider
	ledger      services.LedgerServiceProvider
	mailer      email.Service
	cronSpec    string
	loc         *time.Location
	sendTimeout time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

// NewScheduler creates a new reminder scheduler. cronSpec is a standard
// five-field cron expression evaluated in loc, never in the host zone.
func NewScheduler(courseSvc services.CourseServiceProvider, ledger services.LedgerServiceProvider, mailer email.Service, cronSpec string, loc *time.Location, sendTimeout time.Duration) *Scheduler {
	return &Scheduler{
		courseSvc:   courseSvc,
		ledger:      ledger,
		mailer:      mailer,
		cronSpec:    cronSpec,
		loc:         loc,
		sendTimeout: sendTimeout,
		done:        make(chan struct{}),
	}
}

// Run starts the scheduling loop: compute the next fire time, sleep until
// then, run, repeat. It returns only when Stop is called.
func (s *Scheduler) Run() {
	schedule, err := cron.ParseStandard(s.cronSpec)
	if err != nil {
		log.Error().Err(err).Str("spec", s.cronSpec).Msg("Reminder scheduler: invalid cron expression, not starting")
		return
	}

	log.Info().Str("spec", s.cronSpec).Str("timezone", s.loc.String()).Msg("Starting reminder scheduler...")

	for {
		now := time.Now().In(s.loc)
		next := schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping reminder scheduler.")
			return
		case <-timer.C:
			s.runOnce(time.Now().In(s.loc))
		}
	}
}

// Stop halts the scheduler. It never blocks, even when Run already exited
// (e.g. on an invalid cron expression), and calling it twice is safe.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// runOnce executes one daily run. Any failure is logged and absorbed here:
// the long-lived loop must survive a bad day and fire again tomorrow.
func (s *Scheduler) runOnce(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Reminder run panicked")
		}
	}()

	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	claimed, err := s.ledger.BeginRun(today)
	if err != nil {
		log.Error().Err(err).Str("date", today).Msg("Reminder run: could not claim ledger entry")
		return
	}
	if !claimed {
		log.Info().Str("date", today).Msg("Reminder run already recorded for today, skipping")
		return
	}

	reminders, err := s.courseSvc.DueReminders(tomorrow)
	if err != nil {
		log.Error().Err(err).Str("dueDate", tomorrow).Msg("Reminder run: due-assignment query failed")
		return
	}
	if len(reminders) == 0 {
		log.Info().Str("dueDate", tomorrow).Msg("No assignments due tomorrow")
		return
	}

	dispatched, failed := s.fanOut(reminders)

	if err := s.ledger.FinishRun(today, dispatched, failed); err != nil {
		log.Error().Err(err).Str("date", today).Msg("Reminder run: could not record outcome")
	}
	log.Info().
		Str("dueDate", tomorrow).
		Int("dispatched", dispatched).
		Int("failed", failed).
		Msg("Reminder run finished")
}

// fanOut sends one email per (assignment, student) pair concurrently. A
// failed send is logged and counted; it never cancels the sibling sends.
func (s *Scheduler) fanOut(reminders []models.DueReminder) (dispatched, failed int) {
	results := make(chan error, len(reminders))
	var wg sync.WaitGroup

	for _, r := range reminders {
		wg.Add(1)
		go func(r models.DueReminder) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.sendTimeout)
			defer cancel()

			err := s.mailer.Send(ctx, r.StudentEmail, r.StudentName, subjectFor(r), bodyFor(r))
			if err != nil {
				log.Error().Err(err).Str("to", r.StudentEmail).Str("assignment", r.Title).Msg("Reminder send failed")
			}
			results <- err
		}(r)
	}
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			failed++
		} else {
			dispatched++
		}
	}
	return dispatched, failed
}

func subjectFor(r models.DueReminder) string {
	return fmt.Sprintf("Reminder: %q is due tomorrow", r.Title)
}

func bodyFor(r models.DueReminder) string {
	return fmt.Sprintf("Hi %s,\n\nYour assignment %q for the course %s is due on %s.\n\nGood luck!\nThe Classdesk team",
		r.StudentName, r.Title, r.CourseName, r.DueDate)
}
