package session

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/models"
)

// SQLiteStore keeps sessions in the database so they survive restarts and
// can be shared by multiple instances pointing at the same file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a database-backed session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create makes a new session row for the given profile snapshot.
func (s *SQLiteStore) Create(user models.PublicUser) (Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		User:      user,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, username, full_name, email, role, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		sess.ID, user.ID, user.Username, user.FullName, user.Email, user.Role, sess.CreatedAt,
	)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get returns the session for an ID, or ok=false when absent.
func (s *SQLiteStore) Get(id string) (Session, bool) {
	var sess Session
	row := s.db.QueryRow(
		"SELECT id, user_id, username, full_name, email, role, created_at FROM sessions WHERE id = ?", id)
	err := row.Scan(&sess.ID, &sess.User.ID, &sess.User.Username, &sess.User.FullName,
		&sess.User.Email, &sess.User.Role, &sess.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Error().Err(err).Msg("Failed to load session")
		}
		return Session{}, false
	}
	return sess, true
}

// Destroy removes the session row; absent IDs are a no-op.
func (s *SQLiteStore) Destroy(id string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}
