// Package email sends transactional mail through an external provider.
package email

import "context"

// Service is any backend that can deliver a single message. One call is one
// delivery attempt; there is no retry queue.
type Service interface {
	Send(ctx context.Context, to, toName, subject, body string) error
}
