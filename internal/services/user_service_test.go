package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_RegisterThenAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t), bcrypt.MinCost)

	input := testRegisterInput("ada", "ada@example.com")
	created, err := svc.Register(input)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.PasswordHash)

	user, err := svc.Authenticate("ada@example.com", input.Password)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "Test Student", user.FullName)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "student", user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newTestDB(t), bcrypt.MinCost)

	_, err := svc.Register(testRegisterInput("ada", "ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(testRegisterInput("grace", "ada@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// No second row was created
	users, err := svc.ListUsers(10)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc := NewUserService(newTestDB(t), bcrypt.MinCost)

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing username", func(in *RegisterInput) { in.Username = "" }},
		{"missing full name", func(in *RegisterInput) { in.FullName = " " }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := testRegisterInput("ada", "ada@example.com")
			tt.mutate(&input)
			_, err := svc.Register(input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_AuthenticateGenericFailure(t *testing.T) {
	svc := NewUserService(newTestDB(t), bcrypt.MinCost)

	_, err := svc.Register(testRegisterInput("ada", "ada@example.com"))
	require.NoError(t, err)

	_, wrongPw := svc.Authenticate("ada@example.com", "wrongpw")
	_, noUser := svc.Authenticate("nosuch@example.com", "anything")

	// Both failure modes are indistinguishable to the caller
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), noUser.Error())
}

func TestUserService_HashesAreSalted(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, bcrypt.MinCost)

	password := "same password"
	in1 := testRegisterInput("ada", "ada@example.com")
	in1.Password = password
	in2 := testRegisterInput("grace", "grace@example.com")
	in2.Password = password

	u1, err := svc.Register(in1)
	require.NoError(t, err)
	u2, err := svc.Register(in2)
	require.NoError(t, err)

	var hash1, hash2 string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", u1.ID).Scan(&hash1))
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE id = ?", u2.ID).Scan(&hash2))

	assert.NotEqual(t, hash1, hash2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash1), []byte(password)))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash2), []byte(password)))
}

func TestUserService_ListUsersDefaultLimit(t *testing.T) {
	svc := NewUserService(newTestDB(t), bcrypt.MinCost)

	for i := 0; i < 12; i++ {
		in := testRegisterInput("user", "user@example.com")
		in.Username = in.Username + string(rune('a'+i))
		in.Email = in.Username + "@example.com"
		_, err := svc.Register(in)
		require.NoError(t, err)
	}

	users, err := svc.ListUsers(0)
	require.NoError(t, err)
	assert.Len(t, users, 10)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}
