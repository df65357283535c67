package services

import (
	"database/sql"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/classdesk/classdesk-be/internal/models"
)

// Compared against when no user matches the email, so both failure paths cost
// one bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(input RegisterInput) (models.User, error)
	Authenticate(email, password string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	ListUsers(limit int) ([]models.User, error)
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Phone    string
	Age      int
	Password string
	Role     string
}

// UserService provides registration and authentication on top of the users table.
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a new UserService. cost is the bcrypt work factor.
func NewUserService(db *sql.DB, cost int) *UserService {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: cost}
}

// Register validates the input, hashes the password and inserts the user.
// Duplicate username/email is detected via the unique constraint, not
// pre-checked, so concurrent registrations cannot race past the check.
func (s *UserService) Register(input RegisterInput) (models.User, error) {
	if err := validateRegistration(input); err != nil {
		return models.User{}, err
	}
	if input.Role == "" {
		input.Role = "student"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		Age:          input.Age,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}

	_, err = s.db.Exec(
		"INSERT INTO users (id, username, full_name, email, phone, age, password_hash, role) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.FullName, user.Email, user.Phone, user.Age, user.PasswordHash, user.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %s", ErrDuplicateUser, input.Email)
		}
		return models.User{}, err
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. Both the unknown-email and
// wrong-password paths return the same ErrInvalidCredentials so the response
// never reveals which check failed.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.getUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't hand the password hash to callers
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, full_name, email, phone, age, role, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.FullName, &user.Email, &user.Phone, &user.Age, &user.Role, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return models.User{}, err
	}
	return user, nil
}

// ListUsers returns the most recently created users, without password hashes.
func (s *UserService) ListUsers(limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		"SELECT id, username, full_name, email, phone, age, role, created_at FROM users ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.Email, &user.Phone, &user.Age, &user.Role, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *UserService) getUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, full_name, email, phone, age, password_hash, role, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.FullName, &user.Email, &user.Phone, &user.Age, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func validateRegistration(input RegisterInput) error {
	switch {
	case strings.TrimSpace(input.Username) == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case strings.TrimSpace(input.FullName) == "":
		return fmt.Errorf("%w: full name is required", ErrValidation)
	case strings.TrimSpace(input.Email) == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case input.Password == "":
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return fmt.Errorf("%w: malformed email address", ErrValidation)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
