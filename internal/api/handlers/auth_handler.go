package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/classdesk/classdesk-be/internal/auth"
	"github.com/classdesk/classdesk-be/internal/services"
)

// AuthHandler handles registration, login and logout, for both the HTML form
// flow and the JSON API.
type AuthHandler struct {
	users services.UserServiceProvider
	auth  *auth.Auth
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, a *auth.Auth) *AuthHandler {
	return &AuthHandler{users: users, auth: a}
}

// RegisterForm handles the registration form POST. Failures re-render the
// form with a message; success redirects to the login page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/register?message="+url.QueryEscape("could not read form"), http.StatusSeeOther)
		return
	}

	age, _ := strconv.Atoi(r.FormValue("age"))
	input := services.RegisterInput{
		Username: strings.TrimSpace(r.FormValue("username")),
		FullName: strings.TrimSpace(r.FormValue("full_name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Age:      age,
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	if _, err := h.users.Register(input); err != nil {
		msg := "registration failed, please try again"
		switch {
		case errors.Is(err, services.ErrValidation):
			msg = err.Error()
		case errors.Is(err, services.ErrDuplicateUser):
			msg = "username or email already taken"
		default:
			log.Error().Err(err).Str("email", input.Email).Msg("Failed to register user")
		}
		http.Redirect(w, r, "/register?message="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/login?message="+url.QueryEscape("account created, please log in"), http.StatusSeeOther)
}

// LoginForm handles the login form POST. The failure message is identical
// whether the email is unknown or the password is wrong.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?message="+url.QueryEscape("could not read form"), http.StatusSeeOther)
		return
	}

	user, err := h.users.Authenticate(strings.TrimSpace(r.FormValue("email")), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("Login failed")
		}
		http.Redirect(w, r, "/login?message="+url.QueryEscape("invalid credentials"), http.StatusSeeOther)
		return
	}

	if _, err := h.auth.IssueSession(w, user.Public()); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		http.Redirect(w, r, "/login?message="+url.QueryEscape("login failed, please try again"), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginJSON handles API authentication: it sets the session cookie and also
// returns a bearer token for non-browser clients.
func (h *AuthHandler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		} else {
			log.Error().Err(err).Msg("Login failed")
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if _, err := h.auth.IssueSession(w, user.Public()); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.auth.GenerateToken(user.Public())
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate token")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// Logout destroys the session and redirects to the login page. Logging out
// twice in a row is fine; the second call is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearSession(w, r)
	http.Redirect(w, r, "/login?message="+url.QueryEscape("you have been logged out"), http.StatusSeeOther)
}
