package services

import "errors"

// Failure kinds surfaced by the service layer. Handlers map these to HTTP
// statuses with errors.Is; anything else is treated as an internal error and
// logged without detail reaching the client.
var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrUpstream           = errors.New("upstream provider error")
	ErrDelivery           = errors.New("mail delivery failed")
)
