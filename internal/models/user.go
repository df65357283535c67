package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`    // Never expose this to the client
	Role         string    `json:"role"` // e.g. "student", "teacher"
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the profile snapshot held by a session: a copy of the user's
// public fields taken at login time, not a live reference.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Public returns the session-safe profile snapshot for a user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     u.Role,
	}
}
