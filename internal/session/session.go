package session

import (
	"time"

	"github.com/classdesk/classdesk-be/internal/models"
)

// Session correlates an opaque server-generated identifier with the
// authenticated user's profile snapshot. The snapshot is copied at login and
// can go stale if the underlying user row later changes; it is never
// re-validated per request.
type Session struct {
	ID        string
	User      models.PublicUser
	CreatedAt time.Time
}

// Store is a server-side session store. Implementations must be safe for
// concurrent use; Get returns a point-in-time copy of the session.
type Store interface {
	// Create makes a new session for the given profile snapshot and
	// returns it with a fresh opaque ID.
	Create(user models.PublicUser) (Session, error)
	// Get returns the session for an ID, or ok=false when absent.
	Get(id string) (Session, bool)
	// Destroy removes the session. Destroying an absent session is a no-op.
	Destroy(id string) error
}
