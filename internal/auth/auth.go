// Package auth carries the session/token plumbing between HTTP and the
// session store.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/classdesk/classdesk-be/internal/config"
	"github.com/classdesk/classdesk-be/internal/models"
	"github.com/classdesk/classdesk-be/internal/session"
)

// SessionCookie is the name of the HTTP-only cookie carrying the signed
// session identifier.
const SessionCookie = "classdesk_session"

type contextKey string

const userContextKey = contextKey("authUser")

// Auth wires session issuance and verification. All secrets come from the
// config passed at construction; there is no package-level state.
type Auth struct {
	sessions  session.Store
	codec     *securecookie.SecureCookie
	jwtSecret []byte
	ttl       time.Duration
	secure    bool
}

// New creates the auth layer over the given session store.
func New(store session.Store, cfg *config.Config) *Auth {
	return &Auth{
		sessions:  store,
		codec:     securecookie.New([]byte(cfg.SessionSecret), nil),
		jwtSecret: []byte(cfg.JWTSecret),
		ttl:       cfg.SessionTTL,
		secure:    cfg.AppEnv == "production",
	}
}

// IssueSession creates a server-side session for the user and sets the
// signed session cookie on the response.
func (a *Auth) IssueSession(w http.ResponseWriter, user models.PublicUser) (session.Session, error) {
	sess, err := a.sessions.Create(user)
	if err != nil {
		return session.Session{}, err
	}

	encoded, err := a.codec.Encode(SessionCookie, sess.ID)
	if err != nil {
		_ = a.sessions.Destroy(sess.ID)
		return session.Session{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    encoded,
		Path:     "/",
		Expires:  time.Now().Add(a.ttl),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return sess, nil
}

// ClearSession destroys the session referenced by the request cookie, if any,
// and expires the cookie. Calling it without a session is a no-op.
func (a *Auth) ClearSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := a.sessionIDFromRequest(r); ok {
		_ = a.sessions.Destroy(id)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Require is middleware that rejects requests without a valid session cookie
// or bearer token.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.resolveUser(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
	})
}

// Populate is middleware for pages that render for anonymous visitors too:
// it attaches the user when a session exists but never rejects.
func (a *Auth) Populate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := a.resolveUser(r); ok {
			r = r.WithContext(withUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user attached by the middleware.
func UserFromContext(ctx context.Context) (models.PublicUser, bool) {
	user, ok := ctx.Value(userContextKey).(models.PublicUser)
	return user, ok
}

// resolveUser tries the session cookie first, then a bearer token. The
// session path returns the server-side snapshot; the token path trusts the
// claims for the token's lifetime.
func (a *Auth) resolveUser(r *http.Request) (models.PublicUser, bool) {
	if id, ok := a.sessionIDFromRequest(r); ok {
		if sess, ok := a.sessions.Get(id); ok {
			return sess.User, true
		}
	}

	authHeader := r.Header.Get("Authorization")
	if tokenStr, found := strings.CutPrefix(authHeader, "Bearer "); found && tokenStr != "" {
		if claims, err := a.validateToken(tokenStr); err == nil {
			return claims.publicUser(), true
		}
	}

	return models.PublicUser{}, false
}

func (a *Auth) sessionIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}

	var id string
	if err := a.codec.Decode(SessionCookie, cookie.Value, &id); err != nil {
		return "", false
	}
	return id, true
}

func withUser(ctx context.Context, user models.PublicUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
