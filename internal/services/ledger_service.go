package services

import (
	"database/sql"

	"github.com/classdesk/classdesk-be/internal/models"
)

// LedgerServiceProvider defines the interface for the reminder dispatch ledger.
type LedgerServiceProvider interface {
	BeginRun(runDate string) (bool, error)
	FinishRun(runDate string, dispatched, failed int) error
	GetRun(runDate string) (models.ReminderRun, bool, error)
}

// LedgerService records one row per calendar day the reminder job has run.
// The row doubles as an idempotency guard: a re-fired timer (e.g. a restart
// at 09:00) finds the row and skips the duplicate run.
type LedgerService struct {
	db *sql.DB
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db}
}

// BeginRun claims the given date. It returns false when the date was already
// claimed by an earlier run.
func (s *LedgerService) BeginRun(runDate string) (bool, error) {
	res, err := s.db.Exec("INSERT OR IGNORE INTO reminder_runs (run_date) VALUES (?)", runDate)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// FinishRun records the outcome counts for a claimed date.
func (s *LedgerService) FinishRun(runDate string, dispatched, failed int) error {
	_, err := s.db.Exec("UPDATE reminder_runs SET dispatched = ?, failed = ? WHERE run_date = ?",
		dispatched, failed, runDate)
	return err
}

// GetRun returns the ledger row for a date, or ok=false when the job has not
// run that day.
func (s *LedgerService) GetRun(runDate string) (models.ReminderRun, bool, error) {
	var run models.ReminderRun
	row := s.db.QueryRow(
		"SELECT run_date, dispatched, failed, created_at FROM reminder_runs WHERE run_date = ?", runDate)
	err := row.Scan(&run.RunDate, &run.Dispatched, &run.Failed, &run.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ReminderRun{}, false, nil
		}
		return models.ReminderRun{}, false, err
	}
	return run, true, nil
}
