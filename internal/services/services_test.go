package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classdesk/classdesk-be/internal/database"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
// MaxOpenConns is pinned to 1 so every query sees the same memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func testRegisterInput(username, email string) RegisterInput {
	return RegisterInput{
		Username: username,
		FullName: "Test Student",
		Email:    email,
		Phone:    "555-0100",
		Age:      21,
		Password: "correct horse battery staple",
		Role:     "student",
	}
}
